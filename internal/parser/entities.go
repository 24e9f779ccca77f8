package parser

import (
	"path/filepath"
	"strings"

	"pkc/internal/diag"
	"pkc/internal/entity"
	"pkc/internal/pyast"
	"pkc/internal/source"
)

// Annotation names recognized on defs and classes.
const (
	AnnoWorkload  = "workload"
	AnnoFunctor   = "functor"
	AnnoClasstype = "classtype"
	AnnoWorkunit  = "workunit"
	AnnoFunction  = "function"
	AnnoMain      = "main"
)

// DefaultImportAlias is assumed when the module does not import the
// kernel package explicitly.
const DefaultImportAlias = "pk"

// KernelModule is the host-side package whose import alias scopes all
// recognized annotations and types.
const KernelModule = "pykokkos"

// Entities parses one file and splits it into the main entity and its
// auxiliary classtypes. The main entity is either the single annotated
// workload class or the group of annotated free functions; nil when the
// file declares neither.
func Entities(fs *source.FileSet, fileID source.FileID, reporter diag.Reporter) (*entity.Entity, []entity.Entity) {
	file := fs.Get(fileID)
	mod := ParseFile(file, reporter)

	alias := DefaultImportAlias
	for _, stmt := range mod.Body {
		if imp, ok := stmt.(*pyast.Import); ok && imp.Module == KernelModule && imp.Alias != "" {
			alias = imp.Alias
		}
	}

	var main *entity.Entity
	var classtypes []entity.Entity
	group := &pyast.Module{Loc: mod.Loc}

	newEntity := func(name string, style entity.Style, ast pyast.Node) entity.Entity {
		return entity.Entity{
			AST:         ast,
			Source:      string(file.Content),
			Name:        name,
			Style:       style,
			ImportAlias: alias,
			Path:        file.Path,
			FileID:      fileID,
		}
	}

	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *pyast.ClassDef:
			switch classAnnotation(s, alias) {
			case AnnoWorkload, AnnoFunctor:
				if main != nil {
					diag.Error(reporter, diag.SemDuplicateSymbol, s.Loc,
						"more than one workload class in "+file.Path)
					continue
				}
				e := newEntity(s.Name, entity.StyleWorkload, s)
				main = &e
			case AnnoClasstype:
				classtypes = append(classtypes, newEntity(s.Name, entity.StyleClasstype, s))
			}
		case *pyast.FunctionDef:
			switch defAnnotation(s, alias) {
			case AnnoWorkunit, AnnoFunction:
				group.Body = append(group.Body, s)
			}
		}
	}

	if main == nil && len(group.Body) > 0 {
		e := newEntity(moduleName(file.Path), entity.StyleFunctionGroup, group)
		main = &e
	}
	return main, classtypes
}

func classAnnotation(c *pyast.ClassDef, alias string) string {
	for _, dec := range c.Decorators {
		if name, ok := pyast.DecoratorName(dec, alias); ok {
			return name
		}
	}
	return ""
}

func defAnnotation(f *pyast.FunctionDef, alias string) string {
	for _, dec := range f.Decorators {
		if name, ok := pyast.DecoratorName(dec, alias); ok {
			return name
		}
	}
	return ""
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
