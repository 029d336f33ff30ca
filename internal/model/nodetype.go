// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// NodeType is the parsed definition of one node: its name, description,
// and the field templates a node of this type carries.
type NodeType struct {
	// Name is the type name, taken from the HCL block label.
	// For example, in `node "img_blur" {}`, the Name is "img_blur".
	Name string

	// Description is an optional string describing what the node does.
	Description string

	// Fields maps field names to their templates.
	Fields map[string]*Template

	// FieldOrder preserves manifest declaration order so that editors and
	// exports render fields deterministically.
	FieldOrder []string
}

// Field returns the template for a field name.
func (nt *NodeType) Field(name string) (*Template, error) {
	tpl, ok := nt.Fields[name]
	if !ok {
		return nil, fmt.Errorf("node type %q has no field %q", nt.Name, name)
	}
	return tpl, nil
}

// Catalog is the complete set of node types loaded from the manifests.
type Catalog struct {
	types map[string]*NodeType
	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*NodeType)}
}

// add registers a parsed node type. The manifest parser has already
// rejected duplicates by the time this runs.
func (c *Catalog) add(nt *NodeType) {
	c.types[nt.Name] = nt
	c.order = append(c.order, nt.Name)
}

// Type returns the node type definition for a type name.
func (c *Catalog) Type(name string) (*NodeType, error) {
	nt, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", name)
	}
	return nt, nil
}

// Has reports whether a type name exists in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.types[name]
	return ok
}

// TypeNames returns every type name in manifest declaration order.
func (c *Catalog) TypeNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of node types in the catalog.
func (c *Catalog) Len() int {
	return len(c.types)
}
