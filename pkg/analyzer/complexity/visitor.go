package complexity

import "github.com/panbanda/pymetrics/pkg/ast"

// VisitorOption configures a Visitor.
type VisitorOption func(*Visitor)

// WithOffset controls whether the visitor starts at a complexity of 1.
// Top-level visitors use the offset; sub-visitors walking a single
// statement do not. Enabled by default.
func WithOffset(off bool) VisitorOption {
	return func(v *Visitor) {
		v.off = off
	}
}

// WithNoAssert stops assert statements from counting as decisions.
func WithNoAssert() VisitorOption {
	return func(v *Visitor) {
		v.noAssert = true
	}
}

// AsMethods records the functions found by the visitor as methods of
// className.
func AsMethods(className string) VisitorOption {
	return func(v *Visitor) {
		v.toMethod = true
		v.className = className
	}
}

// Visitor computes the cyclomatic complexity of a syntax tree. Complexity
// holds the decisions found outside any function or class; each function
// and class gets its own record.
type Visitor struct {
	Complexity int
	Functions  []Function
	Classes    []Class

	off       bool
	noAssert  bool
	toMethod  bool
	className string
	maxLine   int
}

// NewVisitor returns a visitor ready to walk a tree.
func NewVisitor(opts ...VisitorOption) *Visitor {
	v := &Visitor{off: true}
	for _, opt := range opts {
		opt(v)
	}
	if v.off {
		v.Complexity = 1
	}
	return v
}

// Visit walks n and everything below it.
func (v *Visitor) Visit(n ast.Node) {
	switch n := n.(type) {
	case nil:
	case *ast.FunctionDef:
		v.visitFunction(n)
	case *ast.ClassDef:
		v.visitClass(n)
	case *ast.Assert:
		if !v.noAssert {
			v.Complexity++
		}
	default:
		v.visitGeneric(n)
	}
}

// FunctionsComplexity is the total complexity of the functions found,
// without their base complexity of 1.
func (v *Visitor) FunctionsComplexity() int {
	total := 0
	for _, fn := range v.Functions {
		total += fn.Complexity
	}
	return total - len(v.Functions)
}

// ClassesComplexity is the total real complexity of the classes found,
// without their base complexity of 1.
func (v *Visitor) ClassesComplexity() int {
	total := 0
	for _, cls := range v.Classes {
		total += cls.RealComplexity
	}
	return total - len(v.Classes)
}

// TotalComplexity is the complexity of everything the visitor has seen.
func (v *Visitor) TotalComplexity() int {
	total := v.Complexity + v.FunctionsComplexity() + v.ClassesComplexity()
	if !v.off {
		total++
	}
	return total
}

// Blocks lists the functions, then each class followed by its methods.
func (v *Visitor) Blocks() []Block {
	return FileResult{Functions: v.Functions, Classes: v.Classes}.Blocks()
}

// MaxLine is the greatest start line seen outside function and class
// headers, or 0 if there was none.
func (v *Visitor) MaxLine() int { return v.maxLine }

// Scores maps each block's full name to its complexity.
func (v *Visitor) Scores() map[string]int {
	blocks := v.Blocks()
	scores := make(map[string]int, len(blocks))
	for _, b := range blocks {
		scores[b.FullName()] = b.Cyclomatic()
	}
	return scores
}

func (v *Visitor) sub(opts ...VisitorOption) *Visitor {
	opts = append(opts, WithOffset(false))
	if v.noAssert {
		opts = append(opts, WithNoAssert())
	}
	return NewVisitor(opts...)
}

func (v *Visitor) visitGeneric(n ast.Node) {
	if hasLine(n.Kind()) {
		v.maxLine = max(v.maxLine, n.Pos().Line)
	}

	switch n := n.(type) {
	case *ast.If, *ast.IfExp:
		v.Complexity++
	case *ast.For:
		v.Complexity += 1 + boolInt(len(n.Orelse) > 0)
	case *ast.While:
		v.Complexity += 1 + boolInt(len(n.Orelse) > 0)
	case *ast.Try:
		v.Complexity += len(n.Handlers) + boolInt(len(n.Orelse) > 0)
	case *ast.BoolOp:
		v.Complexity += len(n.Values) - 1
	case *ast.Comprehension:
		v.Complexity += len(n.Ifs) + 1
	case *ast.Match:
		v.Complexity += max(0, len(n.Cases)-irrefutableCases(n.Cases))
	}

	for _, child := range n.Children() {
		v.Visit(child)
	}
}

func (v *Visitor) visitFunction(n *ast.FunctionDef) {
	var closures []Function
	body := 1
	last := 0
	for _, stmt := range n.Body {
		sv := v.sub()
		sv.Visit(stmt)
		closures = append(closures, sv.Functions...)
		body += sv.Complexity
		last = sv.maxLine
	}

	end := max(n.Line, last)
	for _, c := range closures {
		end = max(end, c.EndLine)
	}

	v.Functions = append(v.Functions, Function{
		Name:       n.Name,
		Line:       n.Line,
		Col:        n.Col,
		EndLine:    end,
		IsMethod:   v.toMethod,
		ClassName:  v.className,
		Closures:   closures,
		Complexity: body,
	})
}

func (v *Visitor) visitClass(n *ast.ClassDef) {
	var methods []Function
	var inner []Class
	body := 1
	end := n.Line
	for _, stmt := range n.Body {
		sv := v.sub(AsMethods(n.Name))
		sv.Visit(stmt)
		methods = append(methods, sv.Functions...)
		body += sv.Complexity + sv.FunctionsComplexity() + len(sv.Functions)
		end = max(end, sv.maxLine)
		inner = append(inner, sv.Classes...)
	}
	for _, m := range methods {
		end = max(end, m.EndLine)
	}

	v.Classes = append(v.Classes, Class{
		Name:           n.Name,
		Line:           n.Line,
		Col:            n.Col,
		EndLine:        end,
		Methods:        methods,
		InnerClasses:   inner,
		RealComplexity: body,
	})
}

// irrefutableCases counts the case clauses whose pattern always matches.
func irrefutableCases(cases []*ast.MatchCase) int {
	n := 0
	for _, c := range cases {
		if as, ok := c.Pattern.(*ast.MatchAs); ok && as.Pattern == nil {
			n++
		}
	}
	return n
}

// hasLine reports whether nodes of kind k carry a meaningful start line for
// end-line tracking.
func hasLine(k ast.Kind) bool {
	switch k {
	case ast.KindModule, ast.KindComprehension, ast.KindArguments,
		ast.KindWithItem, ast.KindMatchCase:
		return false
	}
	return true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
