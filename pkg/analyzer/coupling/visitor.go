package coupling

import (
	"sort"
	"strings"

	"github.com/panbanda/pymetrics/pkg/ast"
)

// Coupling is the CBO of one class.
type Coupling struct {
	Count   int      `json:"coupling_count"`
	Classes []string `json:"coupled_classes"`
}

// Visitor records, for every class, the class-like names it references.
// It needs the Discovery of the same tree.
type Visitor struct {
	disc Discovery

	// current is the innermost class being visited, empty outside classes.
	current string

	order     []string
	lines     map[string][2]int
	couplings map[string]map[string]struct{}
	attrTypes map[string]map[string]string
}

// NewVisitor creates a visitor resolving names against disc.
func NewVisitor(disc Discovery) *Visitor {
	return &Visitor{
		disc:      disc,
		lines:     make(map[string][2]int),
		couplings: make(map[string]map[string]struct{}),
		attrTypes: make(map[string]map[string]string),
	}
}

// Visit walks n and everything below it.
func (v *Visitor) Visit(n ast.Node) {
	switch n := n.(type) {
	case nil:
		return
	case *ast.ClassDef:
		v.visitClass(n)
		return
	case *ast.FunctionDef:
		v.visitFunction(n)
	case *ast.Assign:
		v.visitAssign(n)
	case *ast.AnnAssign:
		v.visitAnnAssign(n)
	case *ast.Call:
		if v.current != "" {
			v.addIfClassLike(v.fullName(n.Func))
		}
	case *ast.Attribute:
		if v.current != "" {
			if attr, ok := selfAttribute(n.Value); ok {
				v.addIfClassLike(v.attrTypes[v.current][attr])
			}
		}
	}
	v.visitChildren(n)
}

func (v *Visitor) visitChildren(n ast.Node) {
	for _, child := range n.Children() {
		v.Visit(child)
	}
}

func (v *Visitor) visitClass(n *ast.ClassDef) {
	prev := v.current
	v.current = n.Name
	defer func() { v.current = prev }()

	if _, seen := v.couplings[n.Name]; !seen {
		v.order = append(v.order, n.Name)
	}
	// A redefinition starts from scratch.
	v.couplings[n.Name] = make(map[string]struct{})
	v.attrTypes[n.Name] = make(map[string]string)
	v.lines[n.Name] = [2]int{n.Line, n.EndLine}

	for _, base := range n.Bases {
		v.addIfClassLike(v.fullName(base))
	}
	v.visitChildren(n)
}

func (v *Visitor) visitFunction(n *ast.FunctionDef) {
	if v.current == "" {
		return
	}
	if n.Args != nil {
		for _, arg := range n.Args.Args {
			if arg.Annotation != nil {
				v.addIfClassLike(v.fullName(arg.Annotation))
			}
		}
	}
	if n.Returns != nil {
		v.addIfClassLike(v.fullName(n.Returns))
	}
}

func (v *Visitor) visitAssign(n *ast.Assign) {
	if v.current == "" {
		return
	}
	for _, target := range n.Targets {
		attr, ok := selfAttribute(target)
		if !ok {
			continue
		}
		assigned := v.assignedClass(n.Value)
		if v.isClassLike(assigned) {
			v.attrTypes[v.current][attr] = assigned
			v.add(assigned)
		}
	}
}

func (v *Visitor) visitAnnAssign(n *ast.AnnAssign) {
	if v.current == "" {
		return
	}
	declared := v.fullName(n.Annotation)
	if declared == "" {
		return
	}
	if attr, ok := selfAttribute(n.Target); ok {
		v.attrTypes[v.current][attr] = declared
		v.addIfClassLike(declared)
		return
	}
	if _, ok := n.Target.(*ast.Name); ok {
		v.addIfClassLike(declared)
	}
}

// assignedClass resolves the right-hand side of an assignment to the name
// of the class it produces. Only calls, names and attribute chains resolve.
func (v *Visitor) assignedClass(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Call:
		return v.fullName(n.Func)
	case *ast.Name, *ast.Attribute:
		return v.fullName(n)
	}
	return ""
}

// fullName resolves an expression to a dotted name through the import
// aliases. Subscripts resolve to their base and calls to their callee;
// anything else is unresolvable and yields "".
func (v *Visitor) fullName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Name:
		if full, ok := v.disc.Resolve(n.ID); ok {
			return full
		}
		return n.ID
	case *ast.Subscript:
		return v.fullName(n.Value)
	case *ast.Attribute:
		base := v.fullName(n.Value)
		if base == "" {
			return ""
		}
		return base + "." + n.Attr
	case *ast.Call:
		return v.fullName(n.Func)
	}
	return ""
}

func (v *Visitor) isClassLike(name string) bool {
	return classLike(name, v.current, v.disc)
}

func (v *Visitor) addIfClassLike(name string) {
	if v.isClassLike(name) {
		v.add(name)
	}
}

func (v *Visitor) add(name string) {
	v.couplings[v.current][name] = struct{}{}
}

// Result reduces every recorded name to the class it refers to and returns
// the coupling of each class.
func (v *Visitor) Result() map[string]Coupling {
	out := make(map[string]Coupling, len(v.couplings))
	for owner, names := range v.couplings {
		out[owner] = v.reduce(owner, names)
	}
	return out
}

// Classes returns the coupling of each class in order of first
// definition.
func (v *Visitor) Classes() []ClassMetrics {
	out := make([]ClassMetrics, 0, len(v.order))
	for _, owner := range v.order {
		c := v.reduce(owner, v.couplings[owner])
		lines := v.lines[owner]
		out = append(out, ClassMetrics{
			ClassName:      owner,
			StartLine:      lines[0],
			EndLine:        lines[1],
			CBO:            c.Count,
			CoupledClasses: c.Classes,
			Risk:           RiskLevel(c.Count),
		})
	}
	return out
}

func (v *Visitor) reduce(owner string, names map[string]struct{}) Coupling {
	set := make(map[string]struct{}, len(names))
	for name := range names {
		cls := className(name, owner, v.disc)
		if cls != owner {
			set[cls] = struct{}{}
		}
	}

	classes := make([]string, 0, len(set))
	for cls := range set {
		classes = append(classes, cls)
	}
	sort.Strings(classes)
	return Coupling{Count: len(classes), Classes: classes}
}

// classLike reports whether a dotted name refers to a built-in type or a
// discovered class other than current. For a qualified name any component
// may match.
func classLike(name, current string, disc Discovery) bool {
	if name == "" {
		return false
	}
	if parts := strings.Split(name, "."); len(parts) > 1 {
		for _, part := range parts {
			if part != "" && part != current && known(part, disc) {
				return true
			}
		}
	}
	return name != current && known(name, disc)
}

// className returns the first class-like component of a qualified name,
// or the name itself.
func className(name, owner string, disc Discovery) string {
	if parts := strings.Split(name, "."); len(parts) > 1 {
		for _, part := range parts {
			if part != "" && part != owner && known(part, disc) {
				return part
			}
		}
	}
	return name
}

func known(name string, disc Discovery) bool {
	return IsBuiltinType(name) || disc.HasClass(name)
}

// selfAttribute returns attr for an expression of the form self.attr.
func selfAttribute(n ast.Node) (string, bool) {
	attr, ok := n.(*ast.Attribute)
	if !ok || !ast.IsName(attr.Value, "self") {
		return "", false
	}
	return attr.Attr, true
}
