package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/panbanda/pymetrics/pkg/ast"
	sitter "github.com/smacker/go-tree-sitter"
)

// converter lowers a tree-sitter Python CST into the ast package. Anything
// it does not model becomes an ast.Unknown holding its converted children.
type converter struct {
	src []byte
}

var binaryOps = map[string]ast.Op{
	"+":  ast.Add,
	"-":  ast.Sub,
	"*":  ast.Mult,
	"@":  ast.MatMult,
	"/":  ast.Div,
	"%":  ast.Mod,
	"**": ast.Pow,
	"<<": ast.LShift,
	">>": ast.RShift,
	"|":  ast.BitOr,
	"^":  ast.BitXor,
	"&":  ast.BitAnd,
	"//": ast.FloorDiv,
}

var unaryOps = map[string]ast.Op{
	"+":   ast.UAdd,
	"-":   ast.USub,
	"~":   ast.Invert,
	"not": ast.Not,
}

var compareOps = map[string]ast.Op{
	"==":     ast.Eq,
	"!=":     ast.NotEq,
	"<>":     ast.NotEq,
	"<":      ast.Lt,
	"<=":     ast.LtE,
	">":      ast.Gt,
	">=":     ast.GtE,
	"is":     ast.Is,
	"is not": ast.IsNot,
	"in":     ast.In,
	"not in": ast.NotIn,
}

var statementTypes = map[string]bool{
	"expression_statement":    true,
	"decorated_definition":    true,
	"function_definition":     true,
	"class_definition":        true,
	"if_statement":            true,
	"for_statement":           true,
	"while_statement":         true,
	"try_statement":           true,
	"with_statement":          true,
	"match_statement":         true,
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"global_statement":        true,
	"nonlocal_statement":      true,
	"return_statement":        true,
	"delete_statement":        true,
	"raise_statement":         true,
	"assert_statement":        true,
	"pass_statement":          true,
	"break_statement":         true,
	"continue_statement":      true,
}

func span(n *sitter.Node) ast.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return ast.Span{
		Line:    int(start.Row) + 1,
		Col:     int(start.Column),
		EndLine: int(end.Row) + 1,
		EndCol:  int(end.Column),
	}
}

func (c *converter) text(n *sitter.Node) string {
	return GetNodeText(n, c.src)
}

// named returns the named children of n without comments.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if child == nil || isExtra(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := range int(n.ChildCount()) {
		if child := n.Child(i); child != nil && !isExtra(child) {
			out = append(out, child)
		}
	}
	return out
}

func isExtra(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

func fieldType(n *sitter.Node, field string) string {
	if f := n.ChildByFieldName(field); f != nil {
		return f.Type()
	}
	return ""
}

func hasToken(n *sitter.Node, token string) bool {
	for _, child := range children(n) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func (c *converter) module(root *sitter.Node) *ast.Module {
	return &ast.Module{Span: span(root), Body: c.stmts(root)}
}

// stmts converts the statements of a module or block.
func (c *converter) stmts(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, child := range named(n) {
		if s := c.stmt(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *converter) body(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "block" {
		return c.stmts(n)
	}
	if s := c.stmt(n); s != nil {
		return []ast.Node{s}
	}
	return nil
}

// node converts any node, picking the statement or expression form.
func (c *converter) node(n *sitter.Node) ast.Node {
	if statementTypes[n.Type()] || n.Type() == "block" {
		return c.stmt(n)
	}
	return c.expr(n)
}

func (c *converter) unknown(n *sitter.Node) ast.Node {
	u := &ast.Unknown{Span: span(n), Type: n.Type()}
	for _, child := range named(n) {
		if conv := c.node(child); conv != nil {
			u.Nodes = append(u.Nodes, conv)
		}
	}
	return u
}

func (c *converter) stmt(n *sitter.Node) ast.Node {
	sp := span(n)
	switch n.Type() {
	case "expression_statement":
		return c.exprStmt(n)
	case "decorated_definition":
		return c.decorated(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "if_statement":
		return c.ifStmt(n)
	case "for_statement":
		return &ast.For{
			Span:   sp,
			Target: c.expr(n.ChildByFieldName("left")),
			Iter:   c.expr(n.ChildByFieldName("right")),
			Body:   c.body(n.ChildByFieldName("body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
			Async:  hasToken(n, "async"),
		}
	case "while_statement":
		return &ast.While{
			Span:   sp,
			Test:   c.expr(n.ChildByFieldName("condition")),
			Body:   c.body(n.ChildByFieldName("body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.tryStmt(n)
	case "with_statement":
		return c.withStmt(n)
	case "match_statement":
		return c.matchStmt(n)
	case "import_statement":
		imp := &ast.Import{Span: sp}
		for _, child := range named(n) {
			imp.Names = append(imp.Names, c.alias(child))
		}
		return imp
	case "import_from_statement", "future_import_statement":
		return c.importFrom(n)
	case "global_statement":
		return &ast.Global{Span: sp, Names: c.identifiers(n)}
	case "nonlocal_statement":
		return &ast.Nonlocal{Span: sp, Names: c.identifiers(n)}
	case "return_statement":
		ret := &ast.Return{Span: sp}
		if kids := named(n); len(kids) > 0 {
			ret.Value = c.expr(kids[0])
		}
		return ret
	case "delete_statement":
		del := &ast.Delete{Span: sp}
		for _, child := range named(n) {
			if child.Type() == "expression_list" {
				del.Targets = append(del.Targets, c.exprs(named(child))...)
				continue
			}
			del.Targets = append(del.Targets, c.expr(child))
		}
		return del
	case "raise_statement":
		return c.raiseStmt(n)
	case "assert_statement":
		as := &ast.Assert{Span: sp}
		kids := named(n)
		if len(kids) > 0 {
			as.Test = c.expr(kids[0])
		}
		if len(kids) > 1 {
			as.Msg = c.expr(kids[1])
		}
		return as
	case "pass_statement":
		return &ast.Pass{Span: sp}
	case "break_statement":
		return &ast.Break{Span: sp}
	case "continue_statement":
		return &ast.Continue{Span: sp}
	default:
		return c.unknown(n)
	}
}

func (c *converter) exprStmt(n *sitter.Node) ast.Node {
	kids := named(n)
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment":
			return c.assignment(kids[0], span(n))
		case "augmented_assignment":
			return c.augAssign(kids[0], span(n))
		}
		return &ast.ExprStmt{Span: span(n), Value: c.expr(kids[0])}
	}
	// a, b as a statement is a bare tuple
	return &ast.ExprStmt{Span: span(n), Value: &ast.Tuple{Span: span(n), Elts: c.exprs(kids)}}
}

func (c *converter) assignment(n *sitter.Node, sp ast.Span) ast.Node {
	if typ := n.ChildByFieldName("type"); typ != nil {
		ann := &ast.AnnAssign{
			Span:       sp,
			Target:     c.expr(n.ChildByFieldName("left")),
			Annotation: c.typeExpr(typ),
		}
		if right := n.ChildByFieldName("right"); right != nil {
			ann.Value = c.expr(right)
		}
		return ann
	}

	assign := &ast.Assign{Span: sp}
	cur := n
	for {
		assign.Targets = append(assign.Targets, c.expr(cur.ChildByFieldName("left")))
		right := cur.ChildByFieldName("right")
		if right == nil {
			return assign
		}
		if right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
			cur = right
			continue
		}
		assign.Value = c.expr(right)
		return assign
	}
}

func (c *converter) augAssign(n *sitter.Node, sp ast.Span) ast.Node {
	op := strings.TrimSuffix(fieldType(n, "operator"), "=")
	return &ast.AugAssign{
		Span:   sp,
		Target: c.expr(n.ChildByFieldName("left")),
		Op:     binaryOps[op],
		Value:  c.expr(n.ChildByFieldName("right")),
	}
}

func (c *converter) decorated(n *sitter.Node) ast.Node {
	var decorators []ast.Node
	for _, child := range named(n) {
		if child.Type() != "decorator" {
			continue
		}
		if kids := named(child); len(kids) > 0 {
			decorators = append(decorators, c.expr(kids[0]))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return c.unknown(n)
	}
	switch def.Type() {
	case "function_definition":
		return c.functionDef(def, decorators)
	case "class_definition":
		return c.classDef(def, decorators)
	}
	return c.unknown(n)
}

func (c *converter) functionDef(n *sitter.Node, decorators []ast.Node) ast.Node {
	fn := &ast.FunctionDef{
		Span:       span(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Args:       c.parameters(n.ChildByFieldName("parameters")),
		Body:       c.body(n.ChildByFieldName("body")),
		Decorators: decorators,
		Async:      hasToken(n, "async"),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.typeExpr(ret)
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []ast.Node) ast.Node {
	cls := &ast.ClassDef{
		Span:       span(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Body:       c.body(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		cls.Bases, cls.Keywords = c.arguments(supers)
	}
	return cls
}

func (c *converter) ifStmt(n *sitter.Node) ast.Node {
	root := &ast.If{
		Span: span(n),
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.body(n.ChildByFieldName("consequence")),
	}

	cur := root
	for _, child := range named(n) {
		switch child.Type() {
		case "elif_clause":
			elif := &ast.If{
				Span: span(child),
				Test: c.expr(child.ChildByFieldName("condition")),
				Body: c.body(child.ChildByFieldName("consequence")),
			}
			cur.Orelse = []ast.Node{elif}
			cur = elif
		case "else_clause":
			cur.Orelse = c.elseBody(child)
		}
	}
	return root
}

func (c *converter) elseBody(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}
	if b := n.ChildByFieldName("body"); b != nil {
		return c.body(b)
	}
	for _, child := range named(n) {
		if child.Type() == "block" {
			return c.body(child)
		}
	}
	return nil
}

func (c *converter) tryStmt(n *sitter.Node) ast.Node {
	try := &ast.Try{Span: span(n), Body: c.body(n.ChildByFieldName("body"))}
	for _, child := range named(n) {
		switch child.Type() {
		case "except_clause":
			try.Handlers = append(try.Handlers, c.handler(child))
		case "except_group_clause":
			try.Star = true
			try.Handlers = append(try.Handlers, c.handler(child))
		case "else_clause":
			try.Orelse = c.elseBody(child)
		case "finally_clause":
			try.Finalbody = c.elseBody(child)
		}
	}
	return try
}

func (c *converter) handler(n *sitter.Node) *ast.ExceptHandler {
	h := &ast.ExceptHandler{Span: span(n)}
	var exprs []*sitter.Node
	for _, child := range named(n) {
		switch child.Type() {
		case "block":
			h.Body = c.body(child)
		case "as_pattern":
			if kids := named(child); len(kids) > 0 {
				h.Type = c.expr(kids[0])
			}
			h.Name = c.text(child.ChildByFieldName("alias"))
		default:
			exprs = append(exprs, child)
		}
	}
	if len(exprs) > 0 && h.Type == nil {
		h.Type = c.expr(exprs[0])
	}
	if len(exprs) > 1 && h.Name == "" {
		h.Name = c.text(exprs[1])
	}
	return h
}

func (c *converter) withStmt(n *sitter.Node) ast.Node {
	with := &ast.With{
		Span:  span(n),
		Body:  c.body(n.ChildByFieldName("body")),
		Async: hasToken(n, "async"),
	}
	for _, clause := range named(n) {
		if clause.Type() != "with_clause" {
			continue
		}
		for _, item := range named(clause) {
			if item.Type() == "with_item" {
				with.Items = append(with.Items, c.withItem(item))
			}
		}
	}
	return with
}

func (c *converter) withItem(n *sitter.Node) *ast.WithItem {
	item := &ast.WithItem{Span: span(n)}
	value := n.ChildByFieldName("value")
	if value == nil {
		if kids := named(n); len(kids) > 0 {
			value = kids[0]
		}
	}
	if value == nil {
		return item
	}
	if value.Type() == "as_pattern" {
		if kids := named(value); len(kids) > 0 {
			item.ContextExpr = c.expr(kids[0])
		}
		if alias := value.ChildByFieldName("alias"); alias != nil {
			item.OptionalVars = c.asTarget(alias)
		}
		return item
	}
	item.ContextExpr = c.expr(value)
	return item
}

func (c *converter) asTarget(n *sitter.Node) ast.Node {
	if n.Type() == "as_pattern_target" {
		if kids := named(n); len(kids) > 0 {
			return c.expr(kids[0])
		}
		return &ast.Name{Span: span(n), ID: c.text(n)}
	}
	return c.expr(n)
}

func (c *converter) matchStmt(n *sitter.Node) ast.Node {
	m := &ast.Match{Span: span(n)}
	var subjects []*sitter.Node
	var cases []*sitter.Node
	for _, child := range named(n) {
		switch child.Type() {
		case "block":
			for _, cc := range named(child) {
				if cc.Type() == "case_clause" {
					cases = append(cases, cc)
				}
			}
		case "case_clause":
			cases = append(cases, child)
		default:
			subjects = append(subjects, child)
		}
	}
	switch len(subjects) {
	case 0:
	case 1:
		m.Subject = c.expr(subjects[0])
	default:
		m.Subject = &ast.Tuple{Span: span(subjects[0]), Elts: c.exprs(subjects)}
	}
	for _, cc := range cases {
		m.Cases = append(m.Cases, c.matchCase(cc))
	}
	return m
}

func (c *converter) matchCase(n *sitter.Node) *ast.MatchCase {
	mc := &ast.MatchCase{Span: span(n), Body: c.body(n.ChildByFieldName("consequence"))}
	var patterns []*sitter.Node
	for _, child := range named(n) {
		switch child.Type() {
		case "case_pattern":
			patterns = append(patterns, child)
		case "if_clause":
			if kids := named(child); len(kids) > 0 {
				mc.Guard = c.expr(kids[0])
			}
		}
	}
	switch len(patterns) {
	case 0:
	case 1:
		mc.Pattern = c.pattern(patterns[0])
	default:
		// case a, b: is an open sequence pattern
		seq := &ast.MatchPattern{Span: span(patterns[0])}
		for _, p := range patterns {
			seq.Nodes = append(seq.Nodes, c.pattern(p))
		}
		mc.Pattern = seq
	}
	return mc
}

func (c *converter) pattern(n *sitter.Node) ast.Node {
	sp := span(n)
	switch n.Type() {
	case "case_pattern":
		if strings.TrimSpace(c.text(n)) == "_" {
			return &ast.MatchAs{Span: sp}
		}
		kids := named(n)
		if len(kids) == 1 && len(children(n)) == 1 {
			if name, ok := c.captureName(kids[0]); ok {
				return &ast.MatchAs{Span: sp, Name: name}
			}
			switch inner := c.pattern(kids[0]).(type) {
			case *ast.MatchAs, *ast.MatchPattern:
				return inner
			default:
				return &ast.MatchPattern{Span: sp, Nodes: []ast.Node{inner}}
			}
		}
		all := children(n)
		if len(all) == 2 && all[0].Type() == "-" {
			return &ast.MatchPattern{Span: sp, Nodes: []ast.Node{
				&ast.UnaryOp{Span: sp, Op: ast.USub, Operand: c.expr(all[1])},
			}}
		}
		return c.subPatterns(n)
	case "as_pattern":
		kids := named(n)
		as := &ast.MatchAs{Span: sp}
		if len(kids) > 0 {
			as.Pattern = c.pattern(kids[0])
		}
		if len(kids) > 1 {
			as.Name = c.text(kids[len(kids)-1])
		}
		return as
	case "class_pattern", "splat_pattern", "union_pattern", "list_pattern", "tuple_pattern",
		"dict_pattern", "keyword_pattern", "complex_pattern":
		return c.subPatterns(n)
	case "dotted_name":
		return c.dotted(n)
	default:
		return c.expr(n)
	}
}

func (c *converter) subPatterns(n *sitter.Node) ast.Node {
	mp := &ast.MatchPattern{Span: span(n)}
	for _, child := range named(n) {
		mp.Nodes = append(mp.Nodes, c.pattern(child))
	}
	return mp
}

// captureName reports whether a pattern is a bare capture name.
func (c *converter) captureName(n *sitter.Node) (string, bool) {
	switch n.Type() {
	case "identifier":
		return c.text(n), true
	case "dotted_name":
		kids := named(n)
		if len(kids) == 1 && kids[0].Type() == "identifier" {
			return c.text(kids[0]), true
		}
	}
	return "", false
}

func (c *converter) alias(n *sitter.Node) *ast.Alias {
	if n.Type() == "aliased_import" {
		return &ast.Alias{
			Span:   span(n),
			Name:   c.text(n.ChildByFieldName("name")),
			AsName: c.text(n.ChildByFieldName("alias")),
		}
	}
	return &ast.Alias{Span: span(n), Name: c.text(n)}
}

func (c *converter) importFrom(n *sitter.Node) ast.Node {
	imp := &ast.ImportFrom{Span: span(n)}
	if n.Type() == "future_import_statement" {
		imp.Module = "__future__"
	}
	if mod := n.ChildByFieldName("module_name"); mod != nil {
		if mod.Type() == "relative_import" {
			for _, part := range named(mod) {
				switch part.Type() {
				case "import_prefix":
					imp.Level = strings.Count(c.text(part), ".")
				case "dotted_name":
					imp.Module = c.text(part)
				}
			}
		} else {
			imp.Module = c.text(mod)
		}
	}

	afterImport := false
	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == "import" {
				afterImport = true
			}
			continue
		}
		if !afterImport {
			continue
		}
		switch child.Type() {
		case "dotted_name", "aliased_import":
			imp.Names = append(imp.Names, c.alias(child))
		case "wildcard_import":
			imp.Names = append(imp.Names, &ast.Alias{Span: span(child), Name: "*"})
		}
	}
	return imp
}

func (c *converter) identifiers(n *sitter.Node) []string {
	var names []string
	for _, child := range named(n) {
		names = append(names, c.text(child))
	}
	return names
}

func (c *converter) raiseStmt(n *sitter.Node) ast.Node {
	r := &ast.Raise{Span: span(n)}
	afterFrom := false
	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == "from" {
				afterFrom = true
			}
			continue
		}
		if afterFrom {
			r.Cause = c.expr(child)
		} else if r.Exc == nil {
			r.Exc = c.expr(child)
		}
	}
	return r
}

func (c *converter) exprs(ns []*sitter.Node) []ast.Node {
	out := make([]ast.Node, 0, len(ns))
	for _, n := range ns {
		if e := c.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *converter) expr(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	sp := span(n)
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &ast.Name{Span: sp, ID: c.text(n)}
	case "integer":
		return &ast.Constant{Span: sp, Value: parseInt(c.text(n))}
	case "float":
		return &ast.Constant{Span: sp, Value: parseFloat(c.text(n))}
	case "true":
		return &ast.Constant{Span: sp, Value: true}
	case "false":
		return &ast.Constant{Span: sp, Value: false}
	case "none":
		return &ast.Constant{Span: sp, Value: nil}
	case "ellipsis":
		return &ast.Constant{Span: sp, Value: ast.Ellipsis{}}
	case "string", "concatenated_string":
		return c.str(n)
	case "attribute":
		return &ast.Attribute{
			Span:  sp,
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
		}
	case "dotted_name":
		return c.dotted(n)
	case "subscript":
		return c.subscript(n)
	case "slice":
		return c.slice(n)
	case "call":
		return c.call(n)
	case "binary_operator":
		return &ast.BinOp{
			Span:  sp,
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    binaryOps[fieldType(n, "operator")],
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "unary_operator":
		return &ast.UnaryOp{
			Span:    sp,
			Op:      unaryOps[fieldType(n, "operator")],
			Operand: c.expr(n.ChildByFieldName("argument")),
		}
	case "not_operator":
		return &ast.UnaryOp{Span: sp, Op: ast.Not, Operand: c.expr(n.ChildByFieldName("argument"))}
	case "boolean_operator":
		return c.boolOp(n)
	case "comparison_operator":
		return c.compare(n)
	case "conditional_expression":
		kids := named(n)
		if len(kids) != 3 {
			return c.unknown(n)
		}
		return &ast.IfExp{Span: sp, Body: c.expr(kids[0]), Test: c.expr(kids[1]), Orelse: c.expr(kids[2])}
	case "named_expression":
		return &ast.NamedExpr{
			Span:   sp,
			Target: c.expr(n.ChildByFieldName("name")),
			Value:  c.expr(n.ChildByFieldName("value")),
		}
	case "lambda":
		lam := &ast.Lambda{Span: sp, Body: c.expr(n.ChildByFieldName("body"))}
		if params := n.ChildByFieldName("parameters"); params != nil {
			lam.Args = c.parameters(params)
		} else {
			lam.Args = &ast.Arguments{Span: sp}
		}
		return lam
	case "await":
		if kids := named(n); len(kids) > 0 {
			return &ast.Await{Span: sp, Value: c.expr(kids[0])}
		}
		return &ast.Await{Span: sp}
	case "yield":
		var value ast.Node
		if kids := named(n); len(kids) > 0 {
			value = c.expr(kids[0])
		}
		if hasToken(n, "from") {
			return &ast.YieldFrom{Span: sp, Value: value}
		}
		return &ast.Yield{Span: sp, Value: value}
	case "parenthesized_expression":
		if kids := named(n); len(kids) == 1 {
			return c.expr(kids[0])
		}
		return c.unknown(n)
	case "list", "list_pattern":
		return &ast.List{Span: sp, Elts: c.exprs(named(n))}
	case "set":
		return &ast.Set{Span: sp, Elts: c.exprs(named(n))}
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		return &ast.Tuple{Span: sp, Elts: c.exprs(named(n))}
	case "dictionary":
		return c.dict(n)
	case "list_comprehension":
		return &ast.ListComp{Span: sp, Elt: c.expr(n.ChildByFieldName("body")), Generators: c.generators(n)}
	case "set_comprehension":
		return &ast.SetComp{Span: sp, Elt: c.expr(n.ChildByFieldName("body")), Generators: c.generators(n)}
	case "generator_expression":
		return &ast.GeneratorExp{Span: sp, Elt: c.expr(n.ChildByFieldName("body")), Generators: c.generators(n)}
	case "dictionary_comprehension":
		dc := &ast.DictComp{Span: sp, Generators: c.generators(n)}
		if pair := n.ChildByFieldName("body"); pair != nil {
			dc.Key = c.expr(pair.ChildByFieldName("key"))
			dc.Value = c.expr(pair.ChildByFieldName("value"))
		}
		return dc
	case "list_splat", "list_splat_pattern", "parenthesized_list_splat", "splat_type":
		if kids := named(n); len(kids) > 0 {
			return &ast.Starred{Span: sp, Value: c.expr(kids[0])}
		}
		return &ast.Starred{Span: sp}
	case "type":
		return c.typeExpr(n)
	case "generic_type", "union_type", "member_type", "constrained_type":
		return c.typeExpr(n)
	default:
		return c.unknown(n)
	}
}

// typeExpr converts an annotation. Plain expressions pass through; the
// dedicated type grammar nodes map onto their expression equivalents.
func (c *converter) typeExpr(n *sitter.Node) ast.Node {
	sp := span(n)
	kids := named(n)
	switch n.Type() {
	case "type":
		if len(kids) == 1 {
			return c.typeExpr(kids[0])
		}
		return c.unknown(n)
	case "generic_type":
		if len(kids) == 0 {
			return c.unknown(n)
		}
		sub := &ast.Subscript{Span: sp, Value: c.typeExpr(kids[0])}
		if len(kids) > 1 {
			params := named(kids[1])
			if len(params) == 1 {
				sub.Slice = c.typeExpr(params[0])
			} else {
				sub.Slice = &ast.Tuple{Span: span(kids[1]), Elts: c.typeExprs(params)}
			}
		}
		return sub
	case "union_type":
		if len(kids) != 2 {
			return c.unknown(n)
		}
		return &ast.BinOp{Span: sp, Left: c.typeExpr(kids[0]), Op: ast.BitOr, Right: c.typeExpr(kids[1])}
	case "member_type":
		if len(kids) != 2 {
			return c.unknown(n)
		}
		return &ast.Attribute{Span: sp, Value: c.typeExpr(kids[0]), Attr: c.text(kids[1])}
	case "constrained_type":
		if len(kids) == 0 {
			return c.unknown(n)
		}
		return c.typeExpr(kids[0])
	default:
		return c.expr(n)
	}
}

func (c *converter) typeExprs(ns []*sitter.Node) []ast.Node {
	out := make([]ast.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, c.typeExpr(n))
	}
	return out
}

func (c *converter) dotted(n *sitter.Node) ast.Node {
	var cur ast.Node
	for _, part := range named(n) {
		if cur == nil {
			cur = &ast.Name{Span: span(part), ID: c.text(part)}
			continue
		}
		cur = &ast.Attribute{Span: span(n), Value: cur, Attr: c.text(part)}
	}
	if cur == nil {
		return &ast.Name{Span: span(n), ID: c.text(n)}
	}
	return cur
}

func (c *converter) subscript(n *sitter.Node) ast.Node {
	value := n.ChildByFieldName("value")
	sub := &ast.Subscript{Span: span(n), Value: c.expr(value)}
	var slices []*sitter.Node
	for _, child := range named(n) {
		if value != nil && child.StartByte() == value.StartByte() && child.EndByte() == value.EndByte() {
			continue
		}
		slices = append(slices, child)
	}
	switch len(slices) {
	case 0:
	case 1:
		sub.Slice = c.expr(slices[0])
	default:
		sub.Slice = &ast.Tuple{Span: span(slices[0]), Elts: c.exprs(slices)}
	}
	return sub
}

func (c *converter) slice(n *sitter.Node) ast.Node {
	s := &ast.Slice{Span: span(n)}
	colons := 0
	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == ":" {
				colons++
			}
			continue
		}
		switch colons {
		case 0:
			s.Lower = c.expr(child)
		case 1:
			s.Upper = c.expr(child)
		default:
			s.Step = c.expr(child)
		}
	}
	return s
}

func (c *converter) call(n *sitter.Node) ast.Node {
	call := &ast.Call{Span: span(n), Func: c.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() == "generator_expression" {
		call.Args = []ast.Node{c.expr(args)}
		return call
	}
	call.Args, call.Keywords = c.arguments(args)
	return call
}

// arguments splits an argument_list into positional and keyword arguments.
func (c *converter) arguments(n *sitter.Node) ([]ast.Node, []*ast.Keyword) {
	var args []ast.Node
	var keywords []*ast.Keyword
	for _, child := range named(n) {
		switch child.Type() {
		case "keyword_argument":
			keywords = append(keywords, &ast.Keyword{
				Span:  span(child),
				Arg:   c.text(child.ChildByFieldName("name")),
				Value: c.expr(child.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			kw := &ast.Keyword{Span: span(child)}
			if kids := named(child); len(kids) > 0 {
				kw.Value = c.expr(kids[0])
			}
			keywords = append(keywords, kw)
		default:
			if e := c.expr(child); e != nil {
				args = append(args, e)
			}
		}
	}
	return args, keywords
}

func (c *converter) boolOp(n *sitter.Node) ast.Node {
	op := ast.And
	if fieldType(n, "operator") == "or" {
		op = ast.Or
	}

	b := &ast.BoolOp{Span: span(n), Op: op}
	left := n.ChildByFieldName("left")
	if left != nil && left.Type() == "boolean_operator" {
		inner := c.boolOp(left).(*ast.BoolOp)
		if inner.Op == op {
			b.Values = append(b.Values, inner.Values...)
		} else {
			b.Values = append(b.Values, inner)
		}
	} else {
		b.Values = append(b.Values, c.expr(left))
	}
	b.Values = append(b.Values, c.expr(n.ChildByFieldName("right")))
	return b
}

func (c *converter) compare(n *sitter.Node) ast.Node {
	cmp := &ast.Compare{Span: span(n)}
	var pending []string
	for _, child := range children(n) {
		if !child.IsNamed() {
			pending = append(pending, child.Type())
			continue
		}
		operand := c.expr(child)
		if cmp.Left == nil {
			cmp.Left = operand
			pending = pending[:0]
			continue
		}
		cmp.Ops = append(cmp.Ops, compareOps[strings.Join(pending, " ")])
		cmp.Comparators = append(cmp.Comparators, operand)
		pending = pending[:0]
	}
	return cmp
}

func (c *converter) dict(n *sitter.Node) ast.Node {
	d := &ast.Dict{Span: span(n)}
	for _, child := range named(n) {
		switch child.Type() {
		case "pair":
			d.Keys = append(d.Keys, c.expr(child.ChildByFieldName("key")))
			d.Values = append(d.Values, c.expr(child.ChildByFieldName("value")))
		case "dictionary_splat":
			d.Keys = append(d.Keys, nil)
			var value ast.Node
			if kids := named(child); len(kids) > 0 {
				value = c.expr(kids[0])
			}
			d.Values = append(d.Values, value)
		}
	}
	return d
}

// generators collects the for clauses of a comprehension, attaching each
// if clause to the for clause before it.
func (c *converter) generators(n *sitter.Node) []*ast.Comprehension {
	var gens []*ast.Comprehension
	for _, child := range named(n) {
		switch child.Type() {
		case "for_in_clause":
			gens = append(gens, c.forIn(child))
		case "if_clause":
			if len(gens) == 0 {
				continue
			}
			if kids := named(child); len(kids) > 0 {
				last := gens[len(gens)-1]
				last.Ifs = append(last.Ifs, c.expr(kids[0]))
			}
		}
	}
	return gens
}

func (c *converter) forIn(n *sitter.Node) *ast.Comprehension {
	comp := &ast.Comprehension{
		Span:   span(n),
		Target: c.expr(n.ChildByFieldName("left")),
		Async:  hasToken(n, "async"),
	}
	afterIn := false
	var iters []*sitter.Node
	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == "in" {
				afterIn = true
			}
			continue
		}
		if afterIn {
			iters = append(iters, child)
		}
	}
	switch len(iters) {
	case 0:
	case 1:
		comp.Iter = c.expr(iters[0])
	default:
		comp.Iter = &ast.Tuple{Span: span(iters[0]), Elts: c.exprs(iters)}
	}
	return comp
}

func (c *converter) str(n *sitter.Node) ast.Node {
	parts := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = named(n)
	}

	var (
		content     strings.Builder
		bytesLit    bool
		formatted   bool
		interpolate []ast.Node
	)
	for i, part := range parts {
		prefix, body := splitString(c.text(part))
		prefix = strings.ToLower(prefix)
		if i == 0 {
			bytesLit = strings.Contains(prefix, "b")
		}
		if strings.Contains(prefix, "f") {
			formatted = true
		}
		content.WriteString(body)
		for _, child := range named(part) {
			if child.Type() != "interpolation" {
				continue
			}
			formatted = true
			expr := child.ChildByFieldName("expression")
			if expr == nil {
				if kids := named(child); len(kids) > 0 {
					expr = kids[0]
				}
			}
			if expr != nil {
				interpolate = append(interpolate, c.expr(expr))
			}
		}
	}

	if formatted {
		return &ast.JoinedStr{Span: span(n), Values: interpolate}
	}
	if bytesLit {
		return &ast.Constant{Span: span(n), Value: ast.Bytes(content.String())}
	}
	return &ast.Constant{Span: span(n), Value: content.String()}
}

// splitString separates a literal into its prefix letters and the raw text
// between the quotes. Escape sequences are left as written.
func splitString(lit string) (string, string) {
	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return "", lit
	}
	prefix, rest := lit[:i], lit[i:]
	quote := rest[:1]
	if len(rest) >= 6 && rest[:3] == strings.Repeat(quote, 3) {
		quote = rest[:3]
	}
	if len(rest) < 2*len(quote) {
		return prefix, ""
	}
	return prefix, rest[len(quote) : len(rest)-len(quote)]
}

func parseInt(lit string) any {
	clean := strings.ReplaceAll(lit, "_", "")
	if strings.HasSuffix(clean, "j") || strings.HasSuffix(clean, "J") {
		f, err := strconv.ParseFloat(clean[:len(clean)-1], 64)
		if err != nil {
			return lit
		}
		return complex(0, f)
	}
	clean = strings.TrimRight(clean, "lL")
	if v, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return v
	}
	// Leading zeros are legal in Python for a zero literal ("00").
	if strings.Trim(clean, "0") == "" {
		return int64(0)
	}
	if b, ok := new(big.Int).SetString(clean, 0); ok {
		return ast.BigInt(b.String())
	}
	return lit
}

func parseFloat(lit string) any {
	clean := strings.ReplaceAll(lit, "_", "")
	if strings.HasSuffix(clean, "j") || strings.HasSuffix(clean, "J") {
		f, err := strconv.ParseFloat(clean[:len(clean)-1], 64)
		if err != nil {
			return lit
		}
		return complex(0, f)
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return lit
	}
	return f
}

// parameters converts a parameters or lambda_parameters node.
func (c *converter) parameters(n *sitter.Node) *ast.Arguments {
	if n == nil {
		return nil
	}
	args := &ast.Arguments{Span: span(n)}
	seenStar := false
	add := func(a *ast.Arg) {
		if seenStar {
			args.KwOnly = append(args.KwOnly, a)
		} else {
			args.Args = append(args.Args, a)
		}
	}

	for _, p := range named(n) {
		switch p.Type() {
		case "identifier":
			add(&ast.Arg{Span: span(p), Name: c.text(p)})
		case "default_parameter":
			add(&ast.Arg{Span: span(p), Name: c.text(p.ChildByFieldName("name"))})
			args.Defaults = append(args.Defaults, c.expr(p.ChildByFieldName("value")))
		case "typed_default_parameter":
			add(&ast.Arg{
				Span:       span(p),
				Name:       c.text(p.ChildByFieldName("name")),
				Annotation: c.typeExpr(p.ChildByFieldName("type")),
			})
			args.Defaults = append(args.Defaults, c.expr(p.ChildByFieldName("value")))
		case "typed_parameter":
			var annotation ast.Node
			if typ := p.ChildByFieldName("type"); typ != nil {
				annotation = c.typeExpr(typ)
			}
			kids := named(p)
			if len(kids) == 0 {
				continue
			}
			inner := kids[0]
			switch inner.Type() {
			case "list_splat_pattern":
				args.Vararg = &ast.Arg{Span: span(p), Name: c.splatName(inner), Annotation: annotation}
				seenStar = true
			case "dictionary_splat_pattern":
				args.Kwarg = &ast.Arg{Span: span(p), Name: c.splatName(inner), Annotation: annotation}
			default:
				add(&ast.Arg{Span: span(p), Name: c.text(inner), Annotation: annotation})
			}
		case "list_splat_pattern":
			args.Vararg = &ast.Arg{Span: span(p), Name: c.splatName(p)}
			seenStar = true
		case "dictionary_splat_pattern":
			args.Kwarg = &ast.Arg{Span: span(p), Name: c.splatName(p)}
		case "keyword_separator":
			seenStar = true
		case "positional_separator":
			args.PosOnly = append(args.PosOnly, args.Args...)
			args.Args = nil
		}
	}
	return args
}

func (c *converter) splatName(n *sitter.Node) string {
	if kids := named(n); len(kids) > 0 {
		return c.text(kids[0])
	}
	return strings.TrimLeft(c.text(n), "*")
}
