// Package entity defines the parsed compilation unit handed to the
// translator: one annotated class or group of annotated free functions,
// plus metadata. Entities are immutable once produced by the parser.
package entity

import (
	"pkc/internal/pyast"
	"pkc/internal/source"
)

// Style discriminates what kind of source unit an entity wraps.
type Style uint8

const (
	// StyleWorkload is an annotated class with fields, workunits, and a
	// driver method.
	StyleWorkload Style = iota
	// StyleFunctionGroup is a set of annotated free functions and
	// workunits from one module.
	StyleFunctionGroup
	// StyleClasstype is an auxiliary value-type class used by the main
	// entity as a field or parameter type.
	StyleClasstype
)

func (s Style) String() string {
	switch s {
	case StyleWorkload:
		return "workload"
	case StyleFunctionGroup:
		return "function group"
	case StyleClasstype:
		return "classtype"
	}
	return "unknown"
}

// Entity is one parsed, annotated source unit. AST is a *pyast.ClassDef
// for workload and classtype styles and a *pyast.Module for function
// groups. Read-only after parsing.
type Entity struct {
	AST         pyast.Node
	Source      string
	Name        string
	Style       Style
	ImportAlias string
	Path        string
	FileID      source.FileID
}
