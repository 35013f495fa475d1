package complexity

import (
	"strings"
	"testing"

	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visit parses code, with a leading newline dropped so that line numbers
// start at the first line of the snippet, and runs a top-level visitor.
func visit(t *testing.T, code string, opts ...VisitorOption) *Visitor {
	t.Helper()
	p := parser.New()
	defer p.Close()
	mod, err := p.ParseString(strings.TrimPrefix(code, "\n"))
	require.NoError(t, err)

	v := NewVisitor(opts...)
	v.Visit(mod)
	return v
}

func onlyFunction(t *testing.T, code string, opts ...VisitorOption) Function {
	t.Helper()
	v := visit(t, code, opts...)
	require.Len(t, v.Functions, 1)
	return v.Functions[0]
}

func TestVisitorEmptyModule(t *testing.T) {
	v := visit(t, "")
	assert.Equal(t, 1, v.Complexity)
	assert.Empty(t, v.Functions)
	assert.Empty(t, v.Classes)
	assert.Equal(t, 1, v.TotalComplexity())
	assert.Equal(t, 0, v.MaxLine())
}

func TestVisitorSimpleFunction(t *testing.T) {
	fn := onlyFunction(t, `
def name(x):
    if x:
        return 1
`)
	assert.Equal(t, "name", fn.Name)
	assert.Equal(t, 2, fn.Complexity)
	assert.Equal(t, 1, fn.Line)
	assert.Equal(t, 0, fn.Col)
	assert.Equal(t, 3, fn.EndLine)
	assert.False(t, fn.IsMethod)
	assert.Equal(t, "F 1:0->3 name - 2", fn.String())
	assert.Equal(t, "A", fn.Rank())
}

func TestVisitorBranches(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "if elif with boolean operator",
			code: `
def f(x, y):
    if x and y:
        return 1
    elif x:
        return 2
    return 3
`,
			want: 4,
		},
		{
			name: "boolean chain counts operands minus one",
			code: `
def f(a, b, c, d):
    return a or b or c or d
`,
			want: 4,
		},
		{
			name: "mixed boolean operators nest",
			code: `
def f(a, b, c):
    return a and b or c
`,
			want: 3,
		},
		{
			name: "ternary",
			code: `
def f(x):
    return 1 if x else 2
`,
			want: 2,
		},
		{
			name: "loops with else",
			code: `
def f(items):
    for i in items:
        pass
    else:
        pass
    while True:
        break
`,
			want: 4,
		},
		{
			name: "async for",
			code: `
async def f(items):
    async for i in items:
        pass
`,
			want: 2,
		},
		{
			name: "try counts handlers and else but not finally",
			code: `
def f():
    try:
        pass
    except ValueError:
        pass
    except Exception:
        pass
    else:
        pass
    finally:
        pass
`,
			want: 4,
		},
		{
			name: "try finally only",
			code: `
def f():
    try:
        pass
    finally:
        pass
`,
			want: 1,
		},
		{
			name: "comprehension with filters",
			code: `
def f(items):
    return [x for x in items if x if x > 1]
`,
			want: 4,
		},
		{
			name: "nested comprehension clauses",
			code: `
def f(rows):
    return {c for r in rows for c in r}
`,
			want: 3,
		},
		{
			name: "lambda body counts for enclosing function",
			code: `
def f():
    g = lambda x: x if x else 0
    return g
`,
			want: 2,
		},
		{
			name: "with is not a decision",
			code: `
def f():
    with open("x") as fh:
        return fh
`,
			want: 1,
		},
		{
			name: "assert",
			code: `
def f(x):
    assert x
    return x
`,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := onlyFunction(t, tt.code)
			assert.Equal(t, tt.want, fn.Complexity)
		})
	}
}

func TestVisitorNoAssert(t *testing.T) {
	code := `
def f(x):
    assert x
    if x:
        assert x > 1
    return x
`
	assert.Equal(t, 4, onlyFunction(t, code).Complexity)
	assert.Equal(t, 2, onlyFunction(t, code, WithNoAssert()).Complexity)
}

func TestVisitorMatch(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "wildcard case is not a decision",
			code: `
def f(cmd):
    match cmd:
        case "a":
            return 1
        case "b":
            return 2
        case _:
            return 3
`,
			want: 3,
		},
		{
			name: "capture case is not a decision",
			code: `
def f(cmd):
    match cmd:
        case 1:
            return 1
        case other:
            return other
`,
			want: 2,
		},
		{
			name: "refutable cases only",
			code: `
def f(cmd):
    match cmd:
        case [x, y]:
            return x
        case {"k": v}:
            return v
        case Point(x=0):
            return 0
`,
			want: 4,
		},
		{
			name: "guard adds its own decisions",
			code: `
def f(cmd):
    match cmd:
        case x if x > 0 and x < 10:
            return x
`,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, onlyFunction(t, tt.code).Complexity)
		})
	}
}

func TestVisitorModuleLevel(t *testing.T) {
	v := visit(t, `
x = 1 if a else 2
def f():
    if a:
        pass
`)
	assert.Equal(t, 2, v.Complexity)
	assert.Equal(t, 1, v.FunctionsComplexity())
	assert.Equal(t, 3, v.TotalComplexity())
}

func TestVisitorLambdaAtModuleLevel(t *testing.T) {
	v := visit(t, "f = lambda x: 1 if x else 2\n")
	assert.Equal(t, 2, v.Complexity)
	assert.Empty(t, v.Functions)
}

func TestVisitorClass(t *testing.T) {
	v := visit(t, `
class A:
    def m1(self):
        if self.x:
            return 1
        return 2

    def m2(self):
        return 3
`)
	require.Len(t, v.Classes, 1)
	cls := v.Classes[0]

	assert.Equal(t, "A", cls.Name)
	assert.Equal(t, 4, cls.RealComplexity)
	assert.Equal(t, 3, cls.Complexity())
	assert.Equal(t, 1, cls.Line)
	assert.Equal(t, 8, cls.EndLine)
	assert.Equal(t, "C 1:0->8 A - 3", cls.String())

	require.Len(t, cls.Methods, 2)
	m1 := cls.Methods[0]
	assert.True(t, m1.IsMethod)
	assert.Equal(t, "A", m1.ClassName)
	assert.Equal(t, "A.m1", m1.FullName())
	assert.Equal(t, "M 2:4->5 A.m1 - 2", m1.String())
	assert.Equal(t, 1, cls.Methods[1].Complexity)

	assert.Empty(t, v.Functions, "methods are not top-level functions")
	assert.Equal(t, 3, v.ClassesComplexity())
	assert.Equal(t, map[string]int{"A": 3, "A.m1": 2, "A.m2": 1}, v.Scores())
}

func TestClassComplexity(t *testing.T) {
	tests := []struct {
		name string
		cls  Class
		want int
	}{
		{"no methods", Class{RealComplexity: 2}, 2},
		{"one method", Class{RealComplexity: 3, Methods: make([]Function, 1)}, 3},
		{"two methods", Class{RealComplexity: 4, Methods: make([]Function, 2)}, 3},
		{"three methods round down", Class{RealComplexity: 8, Methods: make([]Function, 3)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cls.Complexity())
		})
	}
}

func TestVisitorClassWithoutMethods(t *testing.T) {
	v := visit(t, `
class B:
    x = 1 if y else 2
`)
	require.Len(t, v.Classes, 1)
	assert.Equal(t, 2, v.Classes[0].RealComplexity)
	assert.Equal(t, 2, v.Classes[0].Complexity())
	assert.Equal(t, 2, v.Classes[0].EndLine)
}

func TestVisitorInnerClass(t *testing.T) {
	v := visit(t, `
class Outer:
    class Inner:
        def m(self):
            pass
    def n(self):
        pass
`)
	require.Len(t, v.Classes, 1)
	outer := v.Classes[0]
	require.Len(t, outer.Methods, 1)
	assert.Equal(t, "Outer.n", outer.Methods[0].FullName())
	assert.Equal(t, 2, outer.RealComplexity)

	require.Len(t, outer.InnerClasses, 1)
	inner := outer.InnerClasses[0]
	assert.Equal(t, "Inner", inner.Name)
	require.Len(t, inner.Methods, 1)
	assert.Equal(t, "Inner.m", inner.Methods[0].FullName())
}

func TestVisitorMethodInsideConditional(t *testing.T) {
	v := visit(t, `
class A:
    if flag:
        def m(self):
            pass
`)
	require.Len(t, v.Classes, 1)
	cls := v.Classes[0]
	require.Len(t, cls.Methods, 1)
	assert.True(t, cls.Methods[0].IsMethod)
	assert.Equal(t, 3, cls.RealComplexity)
}

func TestVisitorClosures(t *testing.T) {
	v := visit(t, `
def outer(x):
    def inner(y):
        if y:
            return 1
        return 0
    if x:
        return inner(x)
    return 0
`)
	require.Len(t, v.Functions, 1)
	outer := v.Functions[0]

	// The closure's decisions stay on the closure.
	assert.Equal(t, 2, outer.Complexity)
	require.Len(t, outer.Closures, 1)
	inner := outer.Closures[0]
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, 2, inner.Complexity)
	assert.False(t, inner.IsMethod)

	assert.Equal(t, 1, v.FunctionsComplexity())
	assert.Equal(t, 2, v.TotalComplexity())
	assert.Equal(t, 8, outer.EndLine)
}

func TestVisitorClosureExtendsEndLine(t *testing.T) {
	fn := onlyFunction(t, `
def outer():
    x = 1
    def inner():
        return 2
`)
	assert.Equal(t, 4, fn.EndLine)
}

func TestVisitorClosureInsideMethod(t *testing.T) {
	v := visit(t, `
class A:
    def m(self):
        def helper():
            pass
        return helper
`)
	require.Len(t, v.Classes, 1)
	m := v.Classes[0].Methods[0]
	require.Len(t, m.Closures, 1)
	assert.False(t, m.Closures[0].IsMethod)
	assert.Equal(t, "helper", m.Closures[0].FullName())
}

func TestVisitorMaxLine(t *testing.T) {
	assert.Equal(t, 2, visit(t, "x = 1\ny = 2\n").MaxLine())
	assert.Equal(t, 0, visit(t, "def f():\n    pass\n").MaxLine(), "function headers are not tracked")
	assert.Equal(t, 0, visit(t, "assert x\n").MaxLine(), "assert is not descended")
}

func TestVisitorBlocksOrder(t *testing.T) {
	v := visit(t, `
class A:
    def m(self):
        pass

def f():
    pass
`)
	blocks := v.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, "f", blocks[0].FullName())
	assert.Equal(t, "A", blocks[1].FullName())
	assert.Equal(t, "A.m", blocks[2].FullName())
}

func TestRank(t *testing.T) {
	tests := []struct {
		cc   int
		want string
	}{
		{0, "A"}, {1, "A"}, {5, "A"},
		{6, "B"}, {10, "B"},
		{11, "C"}, {20, "C"},
		{21, "D"}, {30, "D"},
		{31, "E"}, {40, "E"},
		{41, "F"}, {100, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rank(tt.cc), "Rank(%d)", tt.cc)
	}
}

func TestOrderBlocks(t *testing.T) {
	blocks := []Block{
		Function{Name: "b", Line: 10, Complexity: 3},
		Function{Name: "a", Line: 20, Complexity: 7},
		Class{Name: "c", Line: 1, RealComplexity: 3},
	}

	SortBlocks(blocks)
	assert.Equal(t, []string{"a", "b", "c"}, names(blocks), "ties keep input order")

	OrderBlocks(blocks, OrderLines)
	assert.Equal(t, []string{"c", "b", "a"}, names(blocks))

	OrderBlocks(blocks, OrderAlpha)
	assert.Equal(t, []string{"a", "b", "c"}, names(blocks))
}

func TestFilterRank(t *testing.T) {
	blocks := []Block{
		Function{Name: "low", Complexity: 2},
		Function{Name: "mid", Complexity: 15},
		Function{Name: "high", Complexity: 45},
	}

	assert.Equal(t, []string{"mid", "high"}, names(FilterRank(blocks, "C", "")))
	assert.Equal(t, []string{"low", "mid"}, names(FilterRank(blocks, "", "C")))
	assert.Equal(t, []string{"low", "mid", "high"}, names(FilterRank(blocks, "", "")))
}

func TestExpandClosures(t *testing.T) {
	blocks := []Block{
		Function{Name: "outer", Closures: []Function{
			{Name: "inner", Closures: []Function{{Name: "deepest"}}},
		}},
		Class{Name: "K"},
	}
	assert.Equal(t, []string{"outer", "inner", "deepest", "K"}, names(ExpandClosures(blocks)))
}

func TestAverageComplexity(t *testing.T) {
	assert.Zero(t, AverageComplexity(nil))
	blocks := []Block{Function{Complexity: 1}, Function{Complexity: 4}}
	assert.InDelta(t, 2.5, AverageComplexity(blocks), 1e-9)
}

func names(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.FullName()
	}
	return out
}

func TestVisitorDescendsIntoUnknown(t *testing.T) {
	branch := &ast.If{
		Span: ast.Span{Line: 2},
		Test: &ast.Name{ID: "x"},
		Body: []ast.Node{&ast.Pass{Span: ast.Span{Line: 3}}},
	}
	mod := &ast.Module{Body: []ast.Node{
		&ast.Unknown{Type: "future_statement", Nodes: []ast.Node{branch}},
		&ast.Unknown{Type: "future_statement", Nodes: []ast.Node{
			&ast.FunctionDef{
				Span: ast.Span{Line: 5},
				Name: "f",
				Body: []ast.Node{&ast.Unknown{Nodes: []ast.Node{branch}}},
			},
		}},
	}}

	v := NewVisitor()
	v.Visit(mod)

	assert.Equal(t, 2, v.Complexity)
	require.Len(t, v.Functions, 1)
	assert.Equal(t, "f", v.Functions[0].Name)
	assert.Equal(t, 2, v.Functions[0].Complexity)
}
