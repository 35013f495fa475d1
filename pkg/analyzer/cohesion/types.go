package cohesion

import (
	"sort"
	"time"
)

// Risk classifies a cohesion score.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// RiskLevel maps an LCOM score to a risk: low up to 2, medium up to 5.
func RiskLevel(lcom int) Risk {
	switch {
	case lcom <= 2:
		return RiskLow
	case lcom <= 5:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ClassMetrics represents the cohesion of a single class.
type ClassMetrics struct {
	Path      string `json:"path"`
	ClassName string `json:"class_name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	// Lack of Cohesion in Methods: non-cohesive method pairs minus
	// cohesive ones, floored at 0. Lower is better.
	LCOM int `json:"lcom"`

	// Number of methods
	NOM int `json:"nom"`

	// Number of distinct self attributes accessed by the methods
	NOF int `json:"nof"`

	Methods []string `json:"methods,omitempty"`
	Fields  []string `json:"fields,omitempty"`

	Risk Risk `json:"risk"`
}

// FileResult holds the classes of one file.
type FileResult struct {
	Path    string         `json:"path"`
	Classes []ClassMetrics `json:"classes"`
}

// Summary provides aggregate cohesion metrics.
type Summary struct {
	TotalClasses int     `json:"total_classes"`
	TotalFiles   int     `json:"total_files"`
	AvgLCOM      float64 `json:"avg_lcom"`
	MaxLCOM      int     `json:"max_lcom"`

	// Classes with LCOM > 1 that may need splitting
	LowCohesionCount int          `json:"low_cohesion_count"`
	Risks            map[Risk]int `json:"risks"`
}

// Analysis represents the full cohesion analysis result.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Classes     []ClassMetrics `json:"classes"`
	Summary     Summary        `json:"summary"`
}

// CalculateSummary computes summary statistics.
func (a *Analysis) CalculateSummary() {
	a.Summary = Summary{Risks: make(map[Risk]int)}
	if len(a.Classes) == 0 {
		return
	}

	files := make(map[string]bool)
	total := 0
	for _, cls := range a.Classes {
		files[cls.Path] = true
		total += cls.LCOM
		a.Summary.MaxLCOM = max(a.Summary.MaxLCOM, cls.LCOM)
		if cls.LCOM > 1 {
			a.Summary.LowCohesionCount++
		}
		a.Summary.Risks[cls.Risk]++
	}

	a.Summary.TotalClasses = len(a.Classes)
	a.Summary.TotalFiles = len(files)
	a.Summary.AvgLCOM = float64(total) / float64(len(a.Classes))
}

// SortByLCOM sorts classes by LCOM in descending order (least cohesive first).
func (a *Analysis) SortByLCOM() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].LCOM > a.Classes[j].LCOM
	})
}

// Above returns the classes whose LCOM exceeds threshold.
func (a *Analysis) Above(threshold int) []ClassMetrics {
	var out []ClassMetrics
	for _, cls := range a.Classes {
		if cls.LCOM > threshold {
			out = append(out, cls)
		}
	}
	return out
}
