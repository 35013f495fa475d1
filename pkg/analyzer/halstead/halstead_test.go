package halstead

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visit(t *testing.T, code string) *Visitor {
	t.Helper()
	p := parser.New()
	defer p.Close()
	mod, err := p.ParseString(code)
	require.NoError(t, err)

	v := NewVisitor("")
	v.Visit(mod)
	return v
}

func TestVisitorCounts(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		n1, n2 int // totals
		h1, h2 int // distinct
	}{
		{"binary", "a + b\n", 1, 2, 1, 2},
		{"repeated operand", "a + a\n", 1, 2, 1, 1},
		{"nested binary", "a + b * c\n", 2, 4, 2, 4},
		{"unary", "not x\n", 1, 1, 1, 1},
		{"boolean chain", "a and b and c\n", 1, 3, 1, 3},
		{"augmented assignment", "x += 1\n", 1, 2, 1, 2},
		{"comparison chain", "a < b < c\n", 2, 3, 1, 3},
		{"mixed comparison", "a < b == c\n", 2, 3, 2, 3},
		{"name and string literal collide", "x + 'x'\n", 1, 2, 1, 1},
		{"attribute operand", "self.total + other.total\n", 1, 2, 1, 1},
		{"plain assignment has no operators", "x = y\n", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := visit(t, tt.code)
			assert.Equal(t, tt.n1, v.Operators, "operators")
			assert.Equal(t, tt.n2, v.Operands, "operands")
			assert.Equal(t, tt.h1, v.DistinctOperators(), "distinct operators")
			assert.Equal(t, tt.h2, v.DistinctOperands(), "distinct operands")
		})
	}
}

func TestVisitorNumericOperands(t *testing.T) {
	tests := []struct {
		name string
		code string
		h2   int
	}{
		{"int and float", "x + 1\ny + 1.0\n", 3},
		{"int and bool", "x + 1\ny and True\n", 3},
		{"zero forms", "x + 0\ny - 0.0\nz or False\n", 4},
		{"fractional float stays distinct", "x + 1\ny + 1.5\n", 4},
		{"big int and integral float", "x + 100000000000000000000\ny + 1e20\n", 3},
		{"big int and string", "x + 100000000000000000000\ny + '100000000000000000000'\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.h2, visit(t, tt.code).DistinctOperands())
		})
	}
}

func TestConstantKey(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{true, int64(1)},
		{false, int64(0)},
		{1.0, int64(1)},
		{-3.0, int64(-3)},
		{2.5, 2.5},
		{complex(3, 0), int64(3)},
		{complex(0.5, 0), 0.5},
		{complex(0, 2), complex(0, 2)},
		{1e20, ast.BigInt("100000000000000000000")},
		{math.Inf(1), math.Inf(1)},
		{"1", "1"},
		{ast.Bytes("1"), ast.Bytes("1")},
		{nil, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, constantKey(tt.in), "constantKey(%v)", tt.in)
	}
}

func TestVisitorDescendsIntoUnknown(t *testing.T) {
	mod := &ast.Module{Body: []ast.Node{
		&ast.Unknown{Type: "future_statement", Nodes: []ast.Node{
			&ast.BinOp{Left: &ast.Name{ID: "a"}, Op: ast.Add, Right: &ast.Name{ID: "b"}},
		}},
	}}

	v := NewVisitor("")
	v.Visit(mod)

	assert.Equal(t, 1, v.Operators)
	assert.Equal(t, 2, v.Operands)
	assert.Equal(t, 1, v.DistinctOperators())
	assert.Equal(t, 2, v.DistinctOperands())
}

func TestVisitorOperatorIdentifiers(t *testing.T) {
	v := visit(t, "a - b\nc ** d\nx is not y\n")
	assert.Equal(t, map[ast.Op]struct{}{ast.Sub: {}, ast.Pow: {}, ast.IsNot: {}}, v.OperatorsSeen)
}

func TestVisitorFunctionScoping(t *testing.T) {
	v := visit(t, `def f(x):
    return x + 1

def g(x):
    return x + 1
`)

	assert.Equal(t, 2, v.Operators)
	assert.Equal(t, 4, v.Operands)
	assert.Equal(t, 1, v.DistinctOperators())
	assert.Equal(t, 4, v.DistinctOperands(), "same names in different functions are distinct")
	assert.Contains(t, v.OperandsSeen, OperandKey{Context: "f", Value: "x"})
	assert.Contains(t, v.OperandsSeen, OperandKey{Context: "g", Value: int64(1)})

	require.Len(t, v.FunctionVisitors, 2)
	f := v.FunctionVisitors[0]
	assert.Equal(t, "f", f.Context)
	assert.Equal(t, 1, f.Operators)
	assert.Equal(t, 2, f.Operands)
	assert.Equal(t, 2, f.DistinctOperands())
}

func TestVisitorClosuresFoldIntoParent(t *testing.T) {
	v := visit(t, `def outer(a):
    def inner(b):
        return b - 1
    return a + 1
`)

	require.Len(t, v.FunctionVisitors, 1, "closures are not listed")
	outer := v.FunctionVisitors[0]
	assert.Equal(t, "outer", outer.Context)
	assert.Equal(t, 2, outer.Operators)
	assert.Equal(t, 4, outer.Operands)
	assert.Equal(t, 2, outer.DistinctOperators())
	assert.Contains(t, outer.OperandsSeen, OperandKey{Context: "inner", Value: "b"})
}

func TestVisitorMethodsAndAsync(t *testing.T) {
	v := visit(t, `class A:
    def m(self):
        return self.x * 2

    async def n(self):
        return -self.y
`)

	require.Len(t, v.FunctionVisitors, 2)
	assert.Equal(t, "m", v.FunctionVisitors[0].Context)
	assert.Equal(t, "n", v.FunctionVisitors[1].Context)
	assert.Contains(t, v.FunctionVisitors[0].OperandsSeen, OperandKey{Context: "m", Value: "x"})
	assert.Contains(t, v.FunctionVisitors[1].OperatorsSeen, ast.USub)
}

func TestVisitorIgnoresFunctionSignature(t *testing.T) {
	v := visit(t, "@cache(1 + 2)\ndef f(x=3 * 4):\n    pass\n")
	assert.Zero(t, v.Operators)
	require.Len(t, v.FunctionVisitors, 1)
	assert.Zero(t, v.FunctionVisitors[0].Operators)
}

func TestNewReport(t *testing.T) {
	r := NewReport(1, 2, 1, 2)

	assert.Equal(t, 3, r.Vocabulary)
	assert.Equal(t, 3, r.Length)
	assert.InDelta(t, 2.0, r.CalculatedLength, 1e-9)
	assert.InDelta(t, 3*math.Log2(3), r.Volume, 1e-9)
	assert.InDelta(t, 0.5, r.Difficulty, 1e-9)
	assert.InDelta(t, r.Difficulty*r.Volume, r.Effort, 1e-9)
	assert.InDelta(t, r.Effort/18, r.Time, 1e-9)
	assert.InDelta(t, r.Volume/3000, r.Bugs, 1e-9)
}

func TestNewReportZero(t *testing.T) {
	assert.Equal(t, Report{}, NewReport(0, 0, 0, 0))

	// Operands without operators still have a volume.
	r := NewReport(0, 2, 0, 2)
	assert.Zero(t, r.CalculatedLength)
	assert.InDelta(t, 2.0, r.Volume, 1e-9)
	assert.Zero(t, r.Difficulty)
}

func TestVisit(t *testing.T) {
	p := parser.New()
	defer p.Close()
	mod, err := p.ParseString("def f(a):\n    return a + 1\n\nx = f(1) * 2\n")
	require.NoError(t, err)

	total, functions := Visit(mod)
	assert.Equal(t, 2, total.N1)
	assert.Equal(t, 4, total.N2)
	require.Len(t, functions, 1)
	assert.Equal(t, "f", functions[0].Name)
	assert.Equal(t, NewReport(1, 2, 1, 2), functions[0].Report)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.py")
	if err := os.WriteFile(path, []byte("def add(a, b):\n    return a + b\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(analysis.Files))
	}
	fr := analysis.Files[0]
	if fr.Total.N1 != 1 || fr.Total.N2 != 2 {
		t.Errorf("Total = %+v, want N1=1 N2=2", fr.Total)
	}
	if len(fr.Functions) != 1 || fr.Functions[0].Name != "add" {
		t.Errorf("Functions = %+v, want [add]", fr.Functions)
	}
	if analysis.Summary.Volume != fr.Total.Volume {
		t.Errorf("Summary.Volume = %v, want %v", analysis.Summary.Volume, fr.Total.Volume)
	}
}
