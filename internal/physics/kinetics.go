package physics

// Cubic is the reaction term of the Aliev–Panfilov model with the recovery
// variable dropped. Its planar fronts travel at sqrt(2*D*k)*(0.5-alpha).
type Cubic struct {
	K     float64 // rate scale, 1/ms
	Alpha float64 // excitation threshold
}

func NewCubic(k, alpha float64) Cubic {
	return Cubic{K: k, Alpha: alpha}
}

// Rate returns k*u*(1-u)*(u-alpha).
func (c Cubic) Rate(u float64) float64 {
	return c.K * u * (1 - u) * (u - c.Alpha)
}
