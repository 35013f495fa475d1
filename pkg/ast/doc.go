// Package ast defines the parser-independent syntax tree consumed by the
// metric visitors.
//
// The vocabulary follows the Python grammar: statements, expressions and the
// helper nodes (arguments, comprehension clauses, exception handlers, match
// cases) that carry the fields the visitors inspect. The set of kinds is
// closed and versioned by Vocabulary. Anything a parser cannot map is kept as
// an Unknown node whose children remain reachable, so visitors degrade to
// generic descent instead of failing.
//
// Usage:
//
//	psr := parser.New()
//	defer psr.Close()
//
//	result, err := psr.Parse(src, "example.py")
//	if err != nil {
//	    return err
//	}
//
//	ast.Inspect(result.Module, func(n ast.Node) bool {
//	    if fn, ok := n.(*ast.FunctionDef); ok {
//	        fmt.Printf("%s at line %d\n", fn.Name, fn.Line)
//	    }
//	    return true
//	})
package ast
