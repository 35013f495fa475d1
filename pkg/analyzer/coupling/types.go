package coupling

import (
	"sort"
	"time"
)

// Risk classifies a coupling count.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// RiskLevel maps a CBO value to a risk: low up to 3, medium up to 7.
func RiskLevel(cbo int) Risk {
	switch {
	case cbo <= 3:
		return RiskLow
	case cbo <= 7:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ClassMetrics represents the coupling of a single class.
type ClassMetrics struct {
	Path      string `json:"path"`
	ClassName string `json:"class_name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	// Coupling Between Objects - number of other classes referenced
	CBO            int      `json:"cbo"`
	CoupledClasses []string `json:"coupled_classes"`

	Risk Risk `json:"risk"`
}

// FileResult holds the classes of one file.
type FileResult struct {
	Path    string         `json:"path"`
	Classes []ClassMetrics `json:"classes"`
}

// Summary provides aggregate coupling metrics.
type Summary struct {
	TotalClasses int          `json:"total_classes"`
	TotalFiles   int          `json:"total_files"`
	AvgCBO       float64      `json:"avg_cbo"`
	MaxCBO       int          `json:"max_cbo"`
	Risks        map[Risk]int `json:"risks"`

	// MostCoupled counts how many classes couple to each name.
	MostCoupled map[string]int `json:"most_coupled"`
}

// Analysis represents the full coupling analysis result.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Classes     []ClassMetrics `json:"classes"`
	Summary     Summary        `json:"summary"`
}

// CalculateSummary computes summary statistics.
func (a *Analysis) CalculateSummary() {
	a.Summary = Summary{
		Risks:       make(map[Risk]int),
		MostCoupled: make(map[string]int),
	}
	if len(a.Classes) == 0 {
		return
	}

	files := make(map[string]bool)
	total := 0
	for _, cls := range a.Classes {
		files[cls.Path] = true
		total += cls.CBO
		a.Summary.MaxCBO = max(a.Summary.MaxCBO, cls.CBO)
		a.Summary.Risks[cls.Risk]++
		for _, name := range cls.CoupledClasses {
			a.Summary.MostCoupled[name]++
		}
	}

	a.Summary.TotalClasses = len(a.Classes)
	a.Summary.TotalFiles = len(files)
	a.Summary.AvgCBO = float64(total) / float64(len(a.Classes))
}

// SortByCBO sorts classes by CBO in descending order (most coupled first).
func (a *Analysis) SortByCBO() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].CBO > a.Classes[j].CBO
	})
}

// Above returns the classes whose CBO exceeds threshold.
func (a *Analysis) Above(threshold int) []ClassMetrics {
	var out []ClassMetrics
	for _, cls := range a.Classes {
		if cls.CBO > threshold {
			out = append(out, cls)
		}
	}
	return out
}
