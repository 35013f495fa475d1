package ast

// BoolOp is a flattened chain of the same boolean operator:
// a and b and c has three Values.
type BoolOp struct {
	Span
	Op     Op
	Values []Node
}

func (*BoolOp) Kind() Kind          { return KindBoolOp }
func (n *BoolOp) Children() []Node { return nodes(n.Values...) }

// NamedExpr is the walrus operator.
type NamedExpr struct {
	Span
	Target Node
	Value  Node
}

func (*NamedExpr) Kind() Kind          { return KindNamedExpr }
func (n *NamedExpr) Children() []Node { return nodes(n.Target, n.Value) }

type BinOp struct {
	Span
	Left  Node
	Op    Op
	Right Node
}

func (*BinOp) Kind() Kind          { return KindBinOp }
func (n *BinOp) Children() []Node { return nodes(n.Left, n.Right) }

type UnaryOp struct {
	Span
	Op      Op
	Operand Node
}

func (*UnaryOp) Kind() Kind          { return KindUnaryOp }
func (n *UnaryOp) Children() []Node { return nodes(n.Operand) }

type Lambda struct {
	Span
	Args *Arguments
	Body Node
}

func (*Lambda) Kind() Kind { return KindLambda }
func (n *Lambda) Children() []Node {
	var out []Node
	if n.Args != nil {
		out = append(out, n.Args)
	}
	return append(out, nodes(n.Body)...)
}

// IfExp is the conditional expression body if test else orelse.
type IfExp struct {
	Span
	Test   Node
	Body   Node
	Orelse Node
}

func (*IfExp) Kind() Kind          { return KindIfExp }
func (n *IfExp) Children() []Node { return nodes(n.Test, n.Body, n.Orelse) }

// Dict is a dict display. A nil key marks a **mapping unpacking entry.
type Dict struct {
	Span
	Keys   []Node
	Values []Node
}

func (*Dict) Kind() Kind { return KindDict }
func (n *Dict) Children() []Node {
	out := make([]Node, 0, len(n.Keys)+len(n.Values))
	for i, v := range n.Values {
		if i < len(n.Keys) && n.Keys[i] != nil {
			out = append(out, n.Keys[i])
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

type Set struct {
	Span
	Elts []Node
}

func (*Set) Kind() Kind          { return KindSet }
func (n *Set) Children() []Node { return nodes(n.Elts...) }

type List struct {
	Span
	Elts []Node
}

func (*List) Kind() Kind          { return KindList }
func (n *List) Children() []Node { return nodes(n.Elts...) }

type Tuple struct {
	Span
	Elts []Node
}

func (*Tuple) Kind() Kind          { return KindTuple }
func (n *Tuple) Children() []Node { return nodes(n.Elts...) }

type ListComp struct {
	Span
	Elt        Node
	Generators []*Comprehension
}

func (*ListComp) Kind() Kind          { return KindListComp }
func (n *ListComp) Children() []Node { return appendAll(nodes(n.Elt), n.Generators) }

type SetComp struct {
	Span
	Elt        Node
	Generators []*Comprehension
}

func (*SetComp) Kind() Kind          { return KindSetComp }
func (n *SetComp) Children() []Node { return appendAll(nodes(n.Elt), n.Generators) }

type GeneratorExp struct {
	Span
	Elt        Node
	Generators []*Comprehension
}

func (*GeneratorExp) Kind() Kind          { return KindGeneratorExp }
func (n *GeneratorExp) Children() []Node { return appendAll(nodes(n.Elt), n.Generators) }

type DictComp struct {
	Span
	Key        Node
	Value      Node
	Generators []*Comprehension
}

func (*DictComp) Kind() Kind          { return KindDictComp }
func (n *DictComp) Children() []Node { return appendAll(nodes(n.Key, n.Value), n.Generators) }

// Comprehension is one for clause of a comprehension with the if filters
// that follow it.
type Comprehension struct {
	Span
	Target Node
	Iter   Node
	Ifs    []Node
	Async  bool
}

func (*Comprehension) Kind() Kind { return KindComprehension }
func (n *Comprehension) Children() []Node {
	return append(nodes(n.Target, n.Iter), nodes(n.Ifs...)...)
}

type Await struct {
	Span
	Value Node
}

func (*Await) Kind() Kind          { return KindAwait }
func (n *Await) Children() []Node { return nodes(n.Value) }

type Yield struct {
	Span
	Value Node
}

func (*Yield) Kind() Kind          { return KindYield }
func (n *Yield) Children() []Node { return nodes(n.Value) }

type YieldFrom struct {
	Span
	Value Node
}

func (*YieldFrom) Kind() Kind          { return KindYieldFrom }
func (n *YieldFrom) Children() []Node { return nodes(n.Value) }

// Compare is a comparison chain: len(Ops) == len(Comparators).
type Compare struct {
	Span
	Left        Node
	Ops         []Op
	Comparators []Node
}

func (*Compare) Kind() Kind          { return KindCompare }
func (n *Compare) Children() []Node { return append(nodes(n.Left), nodes(n.Comparators...)...) }

type Call struct {
	Span
	Func     Node
	Args     []Node
	Keywords []*Keyword
}

func (*Call) Kind() Kind { return KindCall }
func (n *Call) Children() []Node {
	out := append(nodes(n.Func), nodes(n.Args...)...)
	return appendAll(out, n.Keywords)
}

// Keyword is a keyword argument; Arg is empty for **kwargs unpacking.
type Keyword struct {
	Span
	Arg   string
	Value Node
}

func (*Keyword) Kind() Kind          { return KindKeyword }
func (n *Keyword) Children() []Node { return nodes(n.Value) }

// JoinedStr is an f-string; Values are the interpolated expressions.
type JoinedStr struct {
	Span
	Values []Node
}

func (*JoinedStr) Kind() Kind          { return KindJoinedStr }
func (n *JoinedStr) Children() []Node { return nodes(n.Values...) }

// Constant is a literal. Value is one of string, Bytes, int64, BigInt,
// float64, complex128, bool, Ellipsis or nil (None).
type Constant struct {
	Span
	Value any
}

func (*Constant) Kind() Kind        { return KindConstant }
func (*Constant) Children() []Node { return nil }

type Attribute struct {
	Span
	Value Node
	Attr  string
}

func (*Attribute) Kind() Kind          { return KindAttribute }
func (n *Attribute) Children() []Node { return nodes(n.Value) }

type Subscript struct {
	Span
	Value Node
	Slice Node
}

func (*Subscript) Kind() Kind          { return KindSubscript }
func (n *Subscript) Children() []Node { return nodes(n.Value, n.Slice) }

type Starred struct {
	Span
	Value Node
}

func (*Starred) Kind() Kind          { return KindStarred }
func (n *Starred) Children() []Node { return nodes(n.Value) }

type Name struct {
	Span
	ID string
}

func (*Name) Kind() Kind        { return KindName }
func (*Name) Children() []Node { return nil }

type Slice struct {
	Span
	Lower Node
	Upper Node
	Step  Node
}

func (*Slice) Kind() Kind          { return KindSlice }
func (n *Slice) Children() []Node { return nodes(n.Lower, n.Upper, n.Step) }

// Arguments is a parameter list. Args holds the positional-or-keyword
// parameters only.
type Arguments struct {
	Span
	PosOnly  []*Arg
	Args     []*Arg
	Vararg   *Arg
	KwOnly   []*Arg
	Kwarg    *Arg
	Defaults []Node
}

func (*Arguments) Kind() Kind { return KindArguments }
func (n *Arguments) Children() []Node {
	out := appendAll(nil, n.PosOnly)
	out = appendAll(out, n.Args)
	if n.Vararg != nil {
		out = append(out, n.Vararg)
	}
	out = appendAll(out, n.KwOnly)
	if n.Kwarg != nil {
		out = append(out, n.Kwarg)
	}
	return append(out, nodes(n.Defaults...)...)
}

type Arg struct {
	Span
	Name       string
	Annotation Node
}

func (*Arg) Kind() Kind          { return KindArg }
func (n *Arg) Children() []Node { return nodes(n.Annotation) }
