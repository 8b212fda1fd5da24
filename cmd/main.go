package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/edaworks/nodal/pkg/analysis"
	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/netlist"
	"github.com/edaworks/nodal/pkg/util"
)

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func main() {
	inputPath := flag.String("i", "", "circuit file (netlist or JSON); stdin when omitted")
	jsonOut := flag.Bool("json", false, "print the full result as JSON")
	showSteps := flag.Bool("steps", false, "print the derivation steps")
	flag.Parse()

	data, name, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("error reading input: %v", err)
	}

	comps, err := parseInput(data)
	if err != nil {
		log.Fatalf("error parsing input: %v", err)
	}

	result, err := analysis.Solve(name, comps)
	if err != nil {
		kind, message, hint := analysis.ErrorInfo(err)
		if *jsonOut {
			payload, _ := json.MarshalIndent(errorPayload{Kind: kind, Message: message, Hint: hint}, "", "  ")
			fmt.Println(string(payload))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", kind, message)
		if hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}

	if *jsonOut {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("error encoding result: %v", err)
		}
		fmt.Println(string(payload))
		return
	}

	printReport(result, *showSteps)
}

func readInput(path string) ([]byte, string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return data, "stdin circuit", err
	}
	data, err := os.ReadFile(path)
	return data, path, err
}

// parseInput sniffs the format: JSON payloads start with '{'.
func parseInput(data []byte) ([]component.Component, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return netlist.ParseJSON(data)
	}
	return netlist.Parse(trimmed)
}

func printReport(result *analysis.Result, showSteps bool) {
	fmt.Println("Node voltages:")
	labels := make([]string, 0, len(result.Voltages))
	for label := range result.Voltages {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("  V(%s) = %s\n", label, util.FormatValueFactor(result.Voltages[label], "V"))
	}
	fmt.Println()

	fmt.Println("Components:")
	for _, cr := range result.Components {
		fmt.Printf("  %-15s %s -> %s  V=%s  I=%s  %s\n",
			cr.Type, cr.Node1, cr.Node2,
			util.FormatValueFactor(cr.Voltage, "V"),
			util.FormatValueFactor(cr.Current, "A"),
			cr.Description)
	}
	fmt.Println()

	fmt.Printf("Total power: %s\n", util.FormatValueFactor(result.TotalPower, "W"))
	fmt.Printf("Power balance: %v (max residual %.3e)\n",
		result.Summary.PowerBalance, result.MatrixSolution.Verification.MaxError)

	if showSteps {
		fmt.Println()
		fmt.Println("Derivation:")
		for i, step := range result.MatrixSolution.Steps {
			fmt.Printf("%2d. %s\n    %s\n    %s\n", i+1, step.Title, step.Equation, step.Explanation)
		}
	}
}
