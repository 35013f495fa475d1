package halstead

import "math"

// Report holds the Halstead software science metrics.
type Report struct {
	H1               int     `json:"h1"`                // distinct operators
	H2               int     `json:"h2"`                // distinct operands
	N1               int     `json:"N1"`                // total operators
	N2               int     `json:"N2"`                // total operands
	Vocabulary       int     `json:"vocabulary"`        // h = h1 + h2
	Length           int     `json:"length"`            // N = N1 + N2
	CalculatedLength float64 `json:"calculated_length"` // h1*log2(h1) + h2*log2(h2)
	Volume           float64 `json:"volume"`            // V = N * log2(h)
	Difficulty       float64 `json:"difficulty"`        // D = h1/2 * N2/h2
	Effort           float64 `json:"effort"`            // E = D * V
	Time             float64 `json:"time"`              // T = E / 18 seconds
	Bugs             float64 `json:"bugs"`              // B = V / 3000
}

// NewReport creates a report from base counts and calculates the derived
// values.
func NewReport(h1, h2, n1, n2 int) Report {
	r := Report{
		H1:         h1,
		H2:         h2,
		N1:         n1,
		N2:         n2,
		Vocabulary: h1 + h2,
		Length:     n1 + n2,
	}

	if h1 > 0 && h2 > 0 {
		r.CalculatedLength = float64(h1)*math.Log2(float64(h1)) + float64(h2)*math.Log2(float64(h2))
	}
	if r.Vocabulary > 0 {
		r.Volume = float64(r.Length) * math.Log2(float64(r.Vocabulary))
	}
	if h2 > 0 {
		r.Difficulty = float64(h1*n2) / float64(2*h2)
	}
	r.Effort = r.Difficulty * r.Volume
	r.Time = r.Effort / 18
	r.Bugs = r.Volume / 3000

	return r
}

// ReportOf builds the report of a visitor's counts.
func ReportOf(v *Visitor) Report {
	return NewReport(v.DistinctOperators(), v.DistinctOperands(), v.Operators, v.Operands)
}

// FunctionReport is the report of a single function.
type FunctionReport struct {
	Name   string `json:"name"`
	Report Report `json:"report"`
}

// FileResult holds the module total and one report per function.
type FileResult struct {
	Path      string           `json:"path"`
	Total     Report           `json:"total"`
	Functions []FunctionReport `json:"functions"`
}

// Analysis is the project-wide result.
type Analysis struct {
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// Summary aggregates file totals.
type Summary struct {
	TotalFiles int     `json:"total_files"`
	Volume     float64 `json:"volume"`
	Effort     float64 `json:"effort"`
	Bugs       float64 `json:"bugs"`
	AvgVolume  float64 `json:"avg_volume"`
	P90Volume  float64 `json:"p90_volume"`
}
