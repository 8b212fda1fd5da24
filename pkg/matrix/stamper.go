package matrix

// Stamper is the write-only view handed to equation assembly.
type Stamper interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}
