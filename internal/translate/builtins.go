package translate

// mathBuiltins maps recognized math callables to their native spellings.
// Bare names and alias-qualified names both resolve here.
var mathBuiltins = map[string]string{
	"abs":   "std::abs",
	"fabs":  "std::fabs",
	"min":   "std::min",
	"max":   "std::max",
	"pow":   "std::pow",
	"sqrt":  "std::sqrt",
	"cbrt":  "std::cbrt",
	"exp":   "std::exp",
	"log":   "std::log",
	"log2":  "std::log2",
	"log10": "std::log10",
	"sin":   "std::sin",
	"cos":   "std::cos",
	"tan":   "std::tan",
	"floor": "std::floor",
	"ceil":  "std::ceil",
	"fmod":  "std::fmod",
}

// kernelBuiltins are alias-qualified names with meaning to the translator
// itself: dispatch calls, utility calls, and recognized type constructors.
var kernelBuiltins = map[string]bool{
	"printf":          true,
	"fence":           true,
	"parallel_for":    true,
	"parallel_reduce": true,
	"parallel_scan":   true,
	"View":            true,
	"View1D":          true,
	"View2D":          true,
	"View3D":          true,
	"Acc":             true,
}

// bareBuiltins are unqualified names that resolve without being declared.
var bareBuiltins = map[string]bool{
	"range": true,
	"len":   true,
	"int":   true,
	"float": true,
	"bool":  true,
}

// isBuiltinName reports whether a bare identifier is on the allow-list.
func isBuiltinName(name string) bool {
	if bareBuiltins[name] {
		return true
	}
	_, ok := mathBuiltins[name]
	return ok
}

// isKernelAttr reports whether alias.attr is a recognized kernel-package
// name: a dispatch or utility call, a typed-scalar constructor, or a view
// or accumulator type.
func isKernelAttr(attr string) bool {
	if kernelBuiltins[attr] {
		return true
	}
	if _, ok := mathBuiltins[attr]; ok {
		return true
	}
	_, ok := scalarNames[attr]
	return ok
}
