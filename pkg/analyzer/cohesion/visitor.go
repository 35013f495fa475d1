package cohesion

import (
	"sort"

	"github.com/panbanda/pymetrics/pkg/ast"
)

// Visitor scores every class it finds outside another class body.
type Visitor struct {
	// ClassLCOMs maps class names to their score. A later class with the
	// same name replaces the earlier one.
	ClassLCOMs map[string]int

	classes []ClassMetrics
}

// NewVisitor creates an empty visitor.
func NewVisitor() *Visitor {
	return &Visitor{ClassLCOMs: make(map[string]int)}
}

// Visit walks n. A class is scored and not descended into.
func (v *Visitor) Visit(n ast.Node) {
	switch n := n.(type) {
	case nil:
	case *ast.ClassDef:
		m := Measure(n)
		v.ClassLCOMs[n.Name] = m.LCOM
		v.classes = append(v.classes, m)
	default:
		for _, child := range n.Children() {
			v.Visit(child)
		}
	}
}

// Classes returns the metrics of every scored class in source order.
func (v *Visitor) Classes() []ClassMetrics {
	return append([]ClassMetrics(nil), v.classes...)
}

// Compute returns the LCOM of a single class.
func Compute(cls *ast.ClassDef) int {
	methods, fields := methodFields(cls)
	return lcom(methods, fields)
}

// Measure computes the cohesion metrics of a single class.
func Measure(cls *ast.ClassDef) ClassMetrics {
	methods, fields := methodFields(cls)

	all := make(map[string]struct{})
	for _, set := range fields {
		for f := range set {
			all[f] = struct{}{}
		}
	}

	score := lcom(methods, fields)
	return ClassMetrics{
		ClassName: cls.Name,
		StartLine: cls.Line,
		EndLine:   cls.EndLine,
		LCOM:      score,
		NOM:       len(methods),
		NOF:       len(all),
		Methods:   methods,
		Fields:    sortedKeys(all),
		Risk:      RiskLevel(score),
	}
}

// MethodFields returns the names of the self attributes accessed anywhere
// in fn.
func MethodFields(fn *ast.FunctionDef) map[string]struct{} {
	fields := make(map[string]struct{})
	ast.Inspect(fn, func(n ast.Node) bool {
		if attr, ok := n.(*ast.Attribute); ok && ast.IsName(attr.Value, "self") {
			fields[attr.Attr] = struct{}{}
		}
		return true
	})
	return fields
}

// methodFields lists the methods defined directly in the class body and the
// fields each one accesses. Names may repeat in the list; the field map
// keeps the last definition.
func methodFields(cls *ast.ClassDef) ([]string, map[string]map[string]struct{}) {
	var methods []string
	fields := make(map[string]map[string]struct{})
	for _, stmt := range cls.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		methods = append(methods, fn.Name)
		fields[fn.Name] = MethodFields(fn)
	}
	return methods, fields
}

// lcom counts the method pairs sharing no field (P) and the pairs sharing
// at least one (Q). A method using no field makes every pair it is in count
// towards P.
func lcom(methods []string, fields map[string]map[string]struct{}) int {
	if len(methods) < 2 {
		return 0
	}

	p, q := 0, 0
	for i := range methods {
		for j := i + 1; j < len(methods); j++ {
			fi, fj := fields[methods[i]], fields[methods[j]]
			switch {
			case len(fi) == 0 || len(fj) == 0:
				p++
			case disjoint(fi, fj):
				p++
			default:
				q++
			}
		}
	}
	return max(p-q, 0)
}

func disjoint(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
