package coupling

// BuiltinTypes lists the names bound to classes in the CPython 3.12
// builtins module, except super.
var BuiltinTypes = map[string]struct{}{
	"ArithmeticError":           {},
	"AssertionError":            {},
	"AttributeError":            {},
	"BaseException":             {},
	"BaseExceptionGroup":        {},
	"BlockingIOError":           {},
	"BrokenPipeError":           {},
	"BufferError":               {},
	"BytesWarning":              {},
	"ChildProcessError":         {},
	"ConnectionAbortedError":    {},
	"ConnectionError":           {},
	"ConnectionRefusedError":    {},
	"ConnectionResetError":      {},
	"DeprecationWarning":        {},
	"EOFError":                  {},
	"EncodingWarning":           {},
	"EnvironmentError":          {},
	"Exception":                 {},
	"ExceptionGroup":            {},
	"FileExistsError":           {},
	"FileNotFoundError":         {},
	"FloatingPointError":        {},
	"FutureWarning":             {},
	"GeneratorExit":             {},
	"IOError":                   {},
	"ImportError":               {},
	"ImportWarning":             {},
	"IndentationError":          {},
	"IndexError":                {},
	"InterruptedError":          {},
	"IsADirectoryError":         {},
	"KeyError":                  {},
	"KeyboardInterrupt":         {},
	"LookupError":               {},
	"MemoryError":               {},
	"ModuleNotFoundError":       {},
	"NameError":                 {},
	"NotADirectoryError":        {},
	"NotImplementedError":       {},
	"OSError":                   {},
	"OverflowError":             {},
	"PendingDeprecationWarning": {},
	"PermissionError":           {},
	"ProcessLookupError":        {},
	"RecursionError":            {},
	"ReferenceError":            {},
	"ResourceWarning":           {},
	"RuntimeError":              {},
	"RuntimeWarning":            {},
	"StopAsyncIteration":        {},
	"StopIteration":             {},
	"SyntaxError":               {},
	"SyntaxWarning":             {},
	"SystemError":               {},
	"SystemExit":                {},
	"TabError":                  {},
	"TimeoutError":              {},
	"TypeError":                 {},
	"UnboundLocalError":         {},
	"UnicodeDecodeError":        {},
	"UnicodeEncodeError":        {},
	"UnicodeError":              {},
	"UnicodeTranslateError":     {},
	"UnicodeWarning":            {},
	"UserWarning":               {},
	"ValueError":                {},
	"Warning":                   {},
	"ZeroDivisionError":         {},
	"__loader__":                {},
	"bool":                      {},
	"bytearray":                 {},
	"bytes":                     {},
	"classmethod":               {},
	"complex":                   {},
	"dict":                      {},
	"enumerate":                 {},
	"filter":                    {},
	"float":                     {},
	"frozenset":                 {},
	"int":                       {},
	"list":                      {},
	"map":                       {},
	"memoryview":                {},
	"object":                    {},
	"property":                  {},
	"range":                     {},
	"reversed":                  {},
	"set":                       {},
	"slice":                     {},
	"staticmethod":              {},
	"str":                       {},
	"tuple":                     {},
	"type":                      {},
	"zip":                       {},
}

// IsBuiltinType reports whether name is in BuiltinTypes.
func IsBuiltinType(name string) bool {
	_, ok := BuiltinTypes[name]
	return ok
}
