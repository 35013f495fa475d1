// Package halstead counts Halstead operators and operands in Python code.
package halstead

import (
	"math"
	"math/big"

	"github.com/panbanda/pymetrics/pkg/ast"
)

// OperandKey identifies a distinct operand. The same name or literal in two
// functions yields two keys.
type OperandKey struct {
	Context string
	Value   any
}

// Visitor accumulates operator and operand counts for a subtree.
type Visitor struct {
	Operators     int
	Operands      int
	OperatorsSeen map[ast.Op]struct{}
	OperandsSeen  map[OperandKey]struct{}

	// Context is the name of the enclosing function, empty at module level.
	Context string

	// FunctionVisitors holds one aggregate per function found at this
	// visitor's level. Nested functions are folded into their parent.
	FunctionVisitors []*Visitor
}

// NewVisitor creates a visitor scoped to context.
func NewVisitor(context string) *Visitor {
	return &Visitor{
		OperatorsSeen: make(map[ast.Op]struct{}),
		OperandsSeen:  make(map[OperandKey]struct{}),
		Context:       context,
	}
}

// DistinctOperators returns h1.
func (v *Visitor) DistinctOperators() int { return len(v.OperatorsSeen) }

// DistinctOperands returns h2.
func (v *Visitor) DistinctOperands() int { return len(v.OperandsSeen) }

// Visit walks n and everything below it.
func (v *Visitor) Visit(n ast.Node) {
	switch n := n.(type) {
	case nil:
		return
	case *ast.FunctionDef:
		v.visitFunction(n)
		return
	case *ast.BinOp:
		v.record(1, []ast.Op{n.Op}, n.Left, n.Right)
	case *ast.UnaryOp:
		v.record(1, []ast.Op{n.Op}, n.Operand)
	case *ast.BoolOp:
		v.record(1, []ast.Op{n.Op}, n.Values...)
	case *ast.AugAssign:
		v.record(1, []ast.Op{n.Op}, n.Target, n.Value)
	case *ast.Compare:
		v.record(len(n.Ops), n.Ops, append([]ast.Node{n.Left}, n.Comparators...)...)
	}

	for _, child := range n.Children() {
		v.Visit(child)
	}
}

// record adds one construct's operators and operands to the running totals.
func (v *Visitor) record(operators int, ops []ast.Op, operands ...ast.Node) {
	v.Operators += operators
	v.Operands += len(operands)
	for _, op := range ops {
		v.OperatorsSeen[op] = struct{}{}
	}
	for _, operand := range operands {
		v.OperandsSeen[OperandKey{Context: v.Context, Value: operandValue(operand)}] = struct{}{}
	}
}

func (v *Visitor) visitFunction(n *ast.FunctionDef) {
	fn := NewVisitor(n.Name)
	for _, stmt := range n.Body {
		sv := NewVisitor(n.Name)
		sv.Visit(stmt)
		v.merge(sv)
		fn.merge(sv)
	}
	v.FunctionVisitors = append(v.FunctionVisitors, fn)
}

func (v *Visitor) merge(o *Visitor) {
	v.Operators += o.Operators
	v.Operands += o.Operands
	for op := range o.OperatorsSeen {
		v.OperatorsSeen[op] = struct{}{}
	}
	for key := range o.OperandsSeen {
		v.OperandsSeen[key] = struct{}{}
	}
}

// operandValue reduces an operand to the value that identifies it: the
// identifier of a name, the attribute of an attribute access, the value of
// a constant, or the node itself.
func operandValue(n ast.Node) any {
	switch n := n.(type) {
	case *ast.Name:
		return n.ID
	case *ast.Attribute:
		return n.Attr
	case *ast.Constant:
		return constantKey(n.Value)
	}
	return n
}

// constantKey maps literals that compare equal in Python to one key: True,
// 1, 1.0 and 1+0j are the same operand.
func constantKey(v any) any {
	switch v := v.(type) {
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case complex128:
		if imag(v) != 0 {
			return v
		}
		return constantKey(real(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) {
			return v
		}
		if v >= -(1<<63) && v < 1<<63 {
			return int64(v)
		}
		i, _ := big.NewFloat(v).Int(nil)
		return ast.BigInt(i.String())
	}
	return v
}
