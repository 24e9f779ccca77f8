package translate

import (
	"pkc/internal/pyast"
)

// Parents maps every node in a compilation to its syntactic parent. It is
// a side table so the shared AST is never written to; building it twice
// yields the same table.
type Parents map[pyast.Node]pyast.Node

// LinkParents walks each root once and records the parent of every child
// node. Roots themselves have no parent entry.
func LinkParents(roots ...pyast.Node) Parents {
	parents := make(Parents)
	for _, root := range roots {
		if root == nil {
			continue
		}
		pyast.Inspect(root, func(n pyast.Node) bool {
			for _, c := range pyast.Children(n) {
				parents[c] = n
			}
			return true
		})
	}
	return parents
}

// EnclosingDef walks upward from n to the nearest enclosing function
// definition, or nil when n is not inside one.
func (p Parents) EnclosingDef(n pyast.Node) *pyast.FunctionDef {
	for cur := p[n]; cur != nil; cur = p[cur] {
		if fn, ok := cur.(*pyast.FunctionDef); ok {
			return fn
		}
	}
	return nil
}
