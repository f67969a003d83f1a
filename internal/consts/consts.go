package consts

const (
	ShortAdmittance  = 1e12  // Stand-in conductance for a shorted element that survives simplification (S)
	PinvTolerance    = 1e-12 // Relative singular value cutoff for the pseudoinverse, applied after row equilibration
	ResidualTol      = 1e-6  // Relative residual accepted from the LU path
	ReferenceNodeID  = 0     // Reserved reference node
	ReferenceRow     = 0     // Matrix row of the reference node
	DefaultResistor  = 10.0  // Ohm
	DefaultVoltage   = 5.0   // V
	DefaultCurrent   = 1.0   // A
	DefaultCapacitor = 1e-6  // F
)
