package complexity

import (
	"fmt"
	"sort"
)

// Function is the record of a function or method.
type Function struct {
	Name       string     `json:"name"`
	Line       int        `json:"lineno"`
	Col        int        `json:"col_offset"`
	EndLine    int        `json:"endline"`
	IsMethod   bool       `json:"is_method"`
	ClassName  string     `json:"classname,omitempty"`
	Closures   []Function `json:"closures"`
	Complexity int        `json:"complexity"`
}

// Letter returns "M" for methods and "F" otherwise.
func (f Function) Letter() string {
	if f.IsMethod {
		return "M"
	}
	return "F"
}

// FullName is Class.method for methods and the bare name otherwise.
func (f Function) FullName() string {
	if f.ClassName == "" {
		return f.Name
	}
	return f.ClassName + "." + f.Name
}

func (f Function) String() string {
	return fmt.Sprintf("%s %d:%d->%d %s - %d", f.Letter(), f.Line, f.Col, f.EndLine, f.FullName(), f.Complexity)
}

// Rank returns the letter grade of the function's complexity.
func (f Function) Rank() string { return Rank(f.Complexity) }

func (f Function) StartLine() int  { return f.Line }
func (f Function) LastLine() int   { return f.EndLine }
func (f Function) Cyclomatic() int { return f.Complexity }

// Class is the record of a class definition.
type Class struct {
	Name           string     `json:"name"`
	Line           int        `json:"lineno"`
	Col            int        `json:"col_offset"`
	EndLine        int        `json:"endline"`
	Methods        []Function `json:"methods"`
	InnerClasses   []Class    `json:"inner_classes"`
	RealComplexity int        `json:"real_complexity"`
}

// Complexity is the average method complexity. With more than one method
// it is rounded down and incremented by one; a class without methods
// reports its raw complexity.
func (c Class) Complexity() int {
	n := len(c.Methods)
	if n == 0 {
		return c.RealComplexity
	}
	avg := c.RealComplexity / n
	if n > 1 {
		avg++
	}
	return avg
}

func (c Class) Letter() string   { return "C" }
func (c Class) FullName() string { return c.Name }
func (c Class) Rank() string     { return Rank(c.Complexity()) }

func (c Class) String() string {
	return fmt.Sprintf("%s %d:%d->%d %s - %d", c.Letter(), c.Line, c.Col, c.EndLine, c.Name, c.Complexity())
}

func (c Class) StartLine() int  { return c.Line }
func (c Class) LastLine() int   { return c.EndLine }
func (c Class) Cyclomatic() int { return c.Complexity() }

// Block is a function, method or class.
type Block interface {
	FullName() string
	Letter() string
	StartLine() int
	LastLine() int
	Cyclomatic() int
}

var (
	_ Block = Function{}
	_ Block = Class{}
)

// Rank maps a complexity score to a letter:
//
//	1 - 5   A  low, simple block
//	6 - 10  B  low, well structured
//	11 - 20 C  moderate
//	21 - 30 D  more than moderate
//	31 - 40 E  high, error-prone
//	41+     F  very high, unstable
func Rank(cc int) string {
	switch {
	case cc <= 5:
		return "A"
	case cc <= 10:
		return "B"
	case cc <= 20:
		return "C"
	case cc <= 30:
		return "D"
	case cc <= 40:
		return "E"
	default:
		return "F"
	}
}

// Order selects how blocks are listed.
type Order string

const (
	OrderScore Order = "score"
	OrderLines Order = "lines"
	OrderAlpha Order = "alpha"
)

// SortBlocks orders blocks by descending complexity. Ties keep their
// relative order.
func SortBlocks(blocks []Block) {
	OrderBlocks(blocks, OrderScore)
}

// OrderBlocks sorts blocks in place using order. Unknown orders leave the
// slice untouched.
func OrderBlocks(blocks []Block, order Order) {
	switch order {
	case OrderScore:
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].Cyclomatic() > blocks[j].Cyclomatic()
		})
	case OrderLines:
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].StartLine() < blocks[j].StartLine()
		})
	case OrderAlpha:
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].FullName() < blocks[j].FullName()
		})
	}
}

// AverageComplexity returns the mean complexity of blocks, 0 for none.
func AverageComplexity(blocks []Block) float64 {
	if len(blocks) == 0 {
		return 0
	}
	total := 0
	for _, b := range blocks {
		total += b.Cyclomatic()
	}
	return float64(total) / float64(len(blocks))
}

// FilterRank keeps the blocks whose rank lies within [minRank, maxRank].
// Empty bounds are open.
func FilterRank(blocks []Block, minRank, maxRank string) []Block {
	if minRank == "" {
		minRank = "A"
	}
	if maxRank == "" {
		maxRank = "F"
	}
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		r := Rank(b.Cyclomatic())
		if r >= minRank && r <= maxRank {
			out = append(out, b)
		}
	}
	return out
}

// ExpandClosures inserts every function's closures, recursively, right after
// the function itself.
func ExpandClosures(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	var add func(Block)
	add = func(b Block) {
		out = append(out, b)
		if fn, ok := b.(Function); ok {
			for _, c := range fn.Closures {
				add(c)
			}
		}
	}
	for _, b := range blocks {
		add(b)
	}
	return out
}

// FileResult holds the blocks of one file.
type FileResult struct {
	Path      string     `json:"path"`
	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`
	// Total is the whole-file complexity including module-level code.
	Total   int     `json:"total_complexity"`
	Average float64 `json:"average_complexity"`
}

// Blocks lists functions first, then each class followed by its methods.
func (r FileResult) Blocks() []Block {
	blocks := make([]Block, 0, len(r.Functions)+len(r.Classes))
	for _, fn := range r.Functions {
		blocks = append(blocks, fn)
	}
	for _, cls := range r.Classes {
		blocks = append(blocks, cls)
		for _, m := range cls.Methods {
			blocks = append(blocks, m)
		}
	}
	return blocks
}

// Analysis is the project-wide result.
type Analysis struct {
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// Summary provides aggregate statistics over every block.
type Summary struct {
	TotalFiles    int            `json:"total_files"`
	TotalBlocks   int            `json:"total_blocks"`
	AvgComplexity float64        `json:"avg_complexity"`
	MaxComplexity int            `json:"max_complexity"`
	P50Complexity float64        `json:"p50_complexity"`
	P90Complexity float64        `json:"p90_complexity"`
	Ranks         map[string]int `json:"ranks"`
}
