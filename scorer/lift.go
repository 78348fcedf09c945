package scorer

// LiftBand applies Transform to scores strictly below Below.
type LiftBand struct {
	Below     float64
	Transform func(x float64) float64
}

// LiftTable raises weighted scores into the upper range. Bands are checked
// in order; the first one whose bound exceeds the score applies. Scores at or
// above every bound pass through.
type LiftTable []LiftBand

// DefaultLift guarantees at least 0.7 and compresses the range above it.
var DefaultLift = LiftTable{
	{Below: 0.5, Transform: func(x float64) float64 { return 0.7 + 0.3*x }},
	{Below: 0.6, Transform: func(x float64) float64 { return 0.8 + 0.2*x }},
	{Below: 0.7, Transform: func(x float64) float64 { return 0.85 + 0.15*x }},
	{Below: 0.8, Transform: func(x float64) float64 { return x + 0.2 }},
	{Below: 0.9, Transform: func(x float64) float64 { return x + 0.15 }},
}

func (t LiftTable) Apply(x float64) float64 {
	for _, b := range t {
		if x < b.Below {
			return b.Transform(x)
		}
	}
	return x
}
