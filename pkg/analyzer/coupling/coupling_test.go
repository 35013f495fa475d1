package coupling

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, code string) *ast.Module {
	t.Helper()
	p := parser.New()
	defer p.Close()
	mod, err := p.ParseString(code)
	require.NoError(t, err)
	return mod
}

// counts reduces a result to class -> CBO.
func counts(result map[string]Coupling) map[string]int {
	out := make(map[string]int, len(result))
	for name, c := range result {
		out[name] = c.Count
	}
	return out
}

func TestAnalyzeScenarios(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    map[string]int
		coupled map[string][]string
	}{
		{
			name: "inheritance",
			code: `
class Base:
    pass

class Derived(Base):
    pass
`,
			want:    map[string]int{"Base": 0, "Derived": 1},
			coupled: map[string][]string{"Derived": {"Base"}},
		},
		{
			name: "class level field",
			code: `
class A:
    pass

class B:
    a = A()
`,
			want: map[string]int{"A": 0, "B": 1},
		},
		{
			name: "coupling is not transitive",
			code: `
class A:
    pass

class B:
    a = A()

class C:
    def __init__(self):
        self.b = B()
`,
			want:    map[string]int{"A": 0, "B": 1, "C": 1},
			coupled: map[string][]string{"C": {"B"}},
		},
		{
			name: "parameter and return annotations",
			code: `
class A:
    pass

class B:
    def m(self, a: A) -> A:
        pass
`,
			want:    map[string]int{"A": 0, "B": 1},
			coupled: map[string][]string{"B": {"A"}},
		},
		{
			name: "keyword-only parameters are ignored",
			code: `
class A:
    pass

class B:
    def m(self, *, a: A):
        pass
`,
			want: map[string]int{"A": 0, "B": 0},
		},
		{
			name: "async methods",
			code: `
class A:
    pass

class B:
    async def m(self, a: A):
        pass
`,
			want: map[string]int{"A": 0, "B": 1},
		},
		{
			name: "async method annotations",
			code: `
class A:
    async def m(self, x: int) -> str:
        pass
`,
			want: map[string]int{"A": 2},
		},
		{
			name: "built-in types",
			code: `
class Parser:
    def parse(self, text: str) -> dict:
        return list(text)
`,
			want:    map[string]int{"Parser": 3},
			coupled: map[string][]string{"Parser": {"dict", "list", "str"}},
		},
		{
			name: "subscripted generic resolves to its base",
			code: `
class A:
    pass

class B:
    def all(self) -> list[A]:
        pass

    def other(self) -> List[A]:
        pass
`,
			want:    map[string]int{"A": 0, "B": 1},
			coupled: map[string][]string{"B": {"list"}},
		},
		{
			name: "self reference is not a coupling",
			code: `
class Node:
    def clone(self) -> Node:
        return Node()
`,
			want: map[string]int{"Node": 0},
		},
		{
			name: "annotated assignments",
			code: `
class Engine:
    pass

class Wheel:
    pass

class Car:
    spare: Wheel

    def __init__(self):
        self.engine: Engine = make_engine()
`,
			want:    map[string]int{"Engine": 0, "Wheel": 0, "Car": 2},
			coupled: map[string][]string{"Car": {"Engine", "Wheel"}},
		},
		{
			name: "typed self attribute access",
			code: `
class Engine:
    def start(self):
        pass

class Car:
    def __init__(self):
        self.engine = Engine()

    def drive(self):
        self.engine.start()
`,
			want:    map[string]int{"Engine": 0, "Car": 1},
			coupled: map[string][]string{"Car": {"Engine"}},
		},
		{
			name: "module level code is not attributed",
			code: `
class A:
    pass

instance = A()
`,
			want: map[string]int{"A": 0},
		},
		{
			name: "nested class restores the enclosing class",
			code: `
class A:
    pass

class Outer:
    class Inner(A):
        pass

    x = A()
`,
			want: map[string]int{"A": 0, "Outer": 1, "Inner": 1},
		},
		{
			name: "outer body after a nested class still counts",
			code: `
class Outer:
    class Inner:
        pass

    y = Outer.Inner()
`,
			want: map[string]int{"Outer": 1, "Inner": 0},
		},
		{
			name: "qualified names reduce to the class component",
			code: `
import models

class A:
    pass

class B(models.A):
    pass
`,
			want:    map[string]int{"A": 0, "B": 1},
			coupled: map[string][]string{"B": {"A"}},
		},
		{
			name: "import aliases",
			code: `
from . import helpers as h
from .models import Local as L

class Local:
    pass

class User:
    def make(self):
        return h.Local()

    def other(self):
        return L()
`,
			want:    map[string]int{"Local": 0, "User": 1},
			coupled: map[string][]string{"User": {"Local"}},
		},
		{
			name: "unknown names are not couplings",
			code: `
from external import Thing

class User:
    def __init__(self):
        self.thing = Thing()
        self.value = "x".join([])
`,
			want: map[string]int{"User": 0},
		},
		{
			name: "redefinition starts over",
			code: `
class A:
    pass

class B(A):
    pass

class B:
    pass
`,
			want: map[string]int{"A": 0, "B": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(parse(t, tt.code))
			assert.Equal(t, tt.want, counts(result))
			for name, classes := range tt.coupled {
				assert.Equal(t, classes, result[name].Classes, "coupled classes of %s", name)
			}
		})
	}
}

func TestAnalyzeDescendsIntoUnknown(t *testing.T) {
	mod := &ast.Module{Body: []ast.Node{
		&ast.ClassDef{Name: "Base"},
		&ast.Unknown{Type: "future_statement", Nodes: []ast.Node{
			&ast.ClassDef{Name: "Derived", Bases: []ast.Node{&ast.Name{ID: "Base"}}},
		}},
	}}

	result := Analyze(mod)

	assert.Equal(t, map[string]int{"Base": 0, "Derived": 1}, counts(result))
	assert.Equal(t, []string{"Base"}, result["Derived"].Classes)
}

func TestDiscover(t *testing.T) {
	disc := Discover(parse(t, `
import os.path
import numpy as np
from collections import OrderedDict as OD, deque
from . import sibling
from ..pkg import thing

class Outer:
    class Inner:
        pass

def factory():
    import json
    class Local:
        pass
`))

	assert.Equal(t, []string{"Inner", "Local", "Outer"}, disc.Classes())
	assert.True(t, disc.HasClass("Inner"))
	assert.False(t, disc.HasClass("factory"))

	assert.Equal(t, map[string]string{
		"os.path": "os.path",
		"np":      "numpy",
		"OD":      "collections.OrderedDict",
		"deque":   "collections.deque",
		"sibling": "sibling",
		"thing":   "pkg.thing",
		"json":    "json",
	}, disc.Aliases())

	full, ok := disc.Resolve("np")
	assert.True(t, ok)
	assert.Equal(t, "numpy", full)
	_, ok = disc.Resolve("missing")
	assert.False(t, ok)
}

func TestDiscoveryIsImmutable(t *testing.T) {
	disc := Discover(parse(t, "import numpy as np\nclass A:\n    pass\n"))

	aliases := disc.Aliases()
	aliases["np"] = "changed"
	delete(aliases, "np")
	classes := disc.Classes()
	classes[0] = "B"

	full, _ := disc.Resolve("np")
	assert.Equal(t, "numpy", full)
	assert.Equal(t, []string{"A"}, disc.Classes())
}

func TestClassLike(t *testing.T) {
	disc := Discover(parse(t, "class A:\n    pass\nclass B:\n    pass\n"))

	tests := []struct {
		name    string
		current string
		want    bool
	}{
		{"A", "B", true},
		{"A", "A", false},
		{"int", "A", true},
		{"super", "A", false},
		{"len", "A", false},
		{"mod.A", "B", true},
		{"mod.A", "A", false},
		{"A.B", "A", true},
		{"self.x", "A", false},
		{"", "A", false},
	}
	for _, tt := range tests {
		if got := classLike(tt.name, tt.current, disc); got != tt.want {
			t.Errorf("classLike(%q, %q) = %v, want %v", tt.name, tt.current, got, tt.want)
		}
	}
}

func TestVisitorClasses(t *testing.T) {
	mod := parse(t, `
class Base:
    pass

class Derived(Base):
    pass
`)
	v := NewVisitor(Discover(mod))
	v.Visit(mod)

	classes := v.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "Base", classes[0].ClassName)
	assert.Equal(t, "Derived", classes[1].ClassName)
	assert.Equal(t, 5, classes[1].StartLine)
	assert.Equal(t, 1, classes[1].CBO)
	assert.Equal(t, []string{"Base"}, classes[1].CoupledClasses)
	assert.Equal(t, RiskLow, classes[1].Risk)
}

func TestCouplingJSON(t *testing.T) {
	data, err := json.Marshal(Coupling{Count: 1, Classes: []string{"Base"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"coupling_count": 1, "coupled_classes": ["Base"]}`, string(data))
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		cbo  int
		want Risk
	}{
		{0, RiskLow}, {3, RiskLow},
		{4, RiskMedium}, {7, RiskMedium},
		{8, RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.cbo); got != tt.want {
			t.Errorf("RiskLevel(%d) = %q, want %q", tt.cbo, got, tt.want)
		}
	}
}

func TestAnalyzer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.py")
	code := "class Shape:\n    pass\n\nclass Circle(Shape):\n    pass\n\nclass Square(Shape):\n    def area(self) -> float:\n        pass\n"
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Classes) != 3 {
		t.Fatalf("len(Classes) = %d, want 3", len(analysis.Classes))
	}
	if analysis.Classes[0].ClassName != "Square" || analysis.Classes[0].CBO != 2 {
		t.Errorf("Classes[0] = %s/%d, want Square/2 (most coupled first)", analysis.Classes[0].ClassName, analysis.Classes[0].CBO)
	}
	if analysis.Classes[0].Path != path {
		t.Errorf("Path = %q, want %q", analysis.Classes[0].Path, path)
	}
	if analysis.Summary.MostCoupled["Shape"] != 2 {
		t.Errorf("MostCoupled[Shape] = %d, want 2", analysis.Summary.MostCoupled["Shape"])
	}
	if analysis.Summary.MaxCBO != 2 {
		t.Errorf("MaxCBO = %d, want 2", analysis.Summary.MaxCBO)
	}
}
