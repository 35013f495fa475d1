package coupling

import (
	"sort"

	"github.com/panbanda/pymetrics/pkg/ast"
)

// Discovery is the result of the first pass over a module: every class
// declared anywhere in it and every import alias. It is never modified
// after Discover returns.
type Discovery struct {
	classes map[string]struct{}
	aliases map[string]string
}

// Discover collects class names, nested ones included, and maps each
// imported local name to its qualified source name:
//
//	import a.b as c        c   -> a.b
//	import a.b             a.b -> a.b
//	from m import x as y   y   -> m.x
//	from . import x        x   -> x
func Discover(root ast.Node) Discovery {
	d := Discovery{
		classes: make(map[string]struct{}),
		aliases: make(map[string]string),
	}
	ast.Inspect(root, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ClassDef:
			d.classes[n.Name] = struct{}{}
		case *ast.Import:
			for _, a := range n.Names {
				d.aliases[localName(a)] = a.Name
			}
		case *ast.ImportFrom:
			for _, a := range n.Names {
				full := a.Name
				if n.Module != "" {
					full = n.Module + "." + a.Name
				}
				d.aliases[localName(a)] = full
			}
		}
		return true
	})
	return d
}

func localName(a *ast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}
	return a.Name
}

// HasClass reports whether name was declared as a class.
func (d Discovery) HasClass(name string) bool {
	_, ok := d.classes[name]
	return ok
}

// Classes returns the declared class names in sorted order.
func (d Discovery) Classes() []string {
	out := make([]string, 0, len(d.classes))
	for name := range d.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the qualified name an imported local name refers to.
func (d Discovery) Resolve(name string) (string, bool) {
	full, ok := d.aliases[name]
	return full, ok
}

// Aliases returns a copy of the import alias map.
func (d Discovery) Aliases() map[string]string {
	out := make(map[string]string, len(d.aliases))
	for k, v := range d.aliases {
		out[k] = v
	}
	return out
}
