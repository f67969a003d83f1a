package matrix

// DeviceMatrix is the stamping surface an element writes into.
type DeviceMatrix interface {
	AddElement(i, j int, value float64) // 0-based indexing, row 0 is the reference
	AddRHS(i int, value float64)
}
