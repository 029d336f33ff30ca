// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements the HCL parser for node manifests. A manifest file
// declares node types and the field templates they carry:
//
//	node "img_blur" {
//	  description = "Blurs an image"
//
//	  field "radius" {
//	    type    = float
//	    default = 8
//	    min     = 0
//	  }
//	}
//
// Why validate so much at load time?
//
// Every check performed here is a check no other component has to repeat.
// A template that reaches the catalog is internally consistent: its kind
// keyword mapped, its constraint attributes match its kind, its choice
// list is well formed, and its default passes its own constraints. The
// loader accumulates hcl.Diagnostics instead of failing fast so a single
// run reports every problem in the manifests, not just the first one.
package model

import (
	"context"
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fsutil"
	"github.com/specialistvlad/nodecanvas/internal/nchcl"
)

var catalogFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "node", LabelNames: []string{"name"}},
	},
}

var nodeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
	},
}

var fieldBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually
		// to provide a better error message.
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
		{Name: "min"},
		{Name: "max"},
		{Name: "multiple_of"},
		{Name: "choices"},
	},
}

// LoadCatalog finds and parses all .hcl manifest files under the given
// path into a node type catalog.
func LoadCatalog(ctx context.Context, manifestPath string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading node manifests.", "path", manifestPath)

	files, err := fsutil.FindFilesByExtension(manifestPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find manifest files in %s: %w", manifestPath, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl manifest files found in path, returning empty catalog.", "path", manifestPath)
	}

	parser := hclparse.NewParser()
	catalog := NewCatalog()
	var diags hcl.Diagnostics

	for _, file := range files {
		hclFile, parseDiags := parser.ParseHCLFile(file)
		diags = append(diags, parseDiags...)
		if parseDiags.HasErrors() {
			continue
		}
		diags = append(diags, appendCatalogBody(catalog, hclFile.Body)...)
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid node manifests: %w", diags)
	}

	logger.Debug("Node catalog loaded.", "types", catalog.Len(), "files", len(files))
	return catalog, nil
}

// ParseCatalogSource parses a single in-memory manifest. Tests and tools
// use this to build catalogs without touching the file system.
func ParseCatalogSource(filename string, src []byte) (*Catalog, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if !diags.HasErrors() {
		catalog := NewCatalog()
		diags = append(diags, appendCatalogBody(catalog, hclFile.Body)...)
		if !diags.HasErrors() {
			return catalog, nil
		}
	}
	return nil, fmt.Errorf("invalid node manifest %s: %w", filename, diags)
}

// appendCatalogBody parses every `node` block in one file body into the
// catalog, rejecting duplicate type names across files.
func appendCatalogBody(catalog *Catalog, body hcl.Body) hcl.Diagnostics {
	content, diags := body.Content(catalogFileSchema)
	if content == nil {
		return diags
	}

	for _, block := range content.Blocks {
		nodeType, nodeDiags := parseNodeType(block)
		diags = append(diags, nodeDiags...)
		if nodeDiags.HasErrors() {
			continue
		}
		if catalog.Has(nodeType.Name) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate node type",
				Detail:   fmt.Sprintf("A node type named '%s' has already been defined.", nodeType.Name),
				Subject:  &block.DefRange,
			})
			continue
		}
		catalog.add(nodeType)
	}
	return diags
}

// parseNodeType decodes one `node` block into a NodeType.
func parseNodeType(block *hcl.Block) (*NodeType, hcl.Diagnostics) {
	nodeType := &NodeType{
		Name:   block.Labels[0],
		Fields: make(map[string]*Template),
	}

	content, diags := block.Body.Content(nodeBodySchema)
	if content == nil {
		return nil, diags
	}

	if attr, exists := content.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &nodeType.Description)...)
	}

	for _, fieldBlock := range content.Blocks.OfType("field") {
		tpl, fieldDiags := parseFieldTemplate(fieldBlock)
		diags = append(diags, fieldDiags...)
		if fieldDiags.HasErrors() {
			continue
		}
		if _, exists := nodeType.Fields[tpl.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate field definition",
				Detail:   fmt.Sprintf("A field named '%s' has already been defined on node type '%s'.", tpl.Name, nodeType.Name),
				Subject:  &fieldBlock.DefRange,
			})
			continue
		}
		nodeType.Fields[tpl.Name] = tpl
		nodeType.FieldOrder = append(nodeType.FieldOrder, tpl.Name)
	}

	return nodeType, diags
}

// parseFieldTemplate decodes one `field` block into a Template and
// verifies the template against itself.
func parseFieldTemplate(block *hcl.Block) (*Template, hcl.Diagnostics) {
	fieldName := block.Labels[0]

	content, diags := block.Body.Content(fieldBodySchema)
	if content == nil {
		return nil, diags
	}

	// Manually check for the required 'type' attribute for a better error.
	typeAttr, exists := content.Attributes["type"]
	if !exists {
		missingItemRange := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'type' attribute",
			Detail:   fmt.Sprintf("The 'type' attribute is required for field '%s'.", fieldName),
			Subject:  &missingItemRange,
		})
		return nil, diags
	}

	kind, kindDiags := nchcl.KindFromExpr(typeAttr.Expr)
	diags = append(diags, kindDiags...)
	if kindDiags.HasErrors() {
		return nil, diags
	}

	tpl := &Template{Name: fieldName, Kind: kind}

	if attr, exists := content.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &tpl.Description)...)
	}

	diags = append(diags, parseChoices(tpl, content)...)
	diags = append(diags, parseNumberConstraints(tpl, content)...)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, exists := content.Attributes["default"]; exists {
		// A nil eval context is used because defaults must be literal values.
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return nil, diags
		}
		def, err := nchcl.FromCty(kind, val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value",
				Detail:   fmt.Sprintf("The default value for field '%s' does not fit its kind: %v.", fieldName, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			return nil, diags
		}
		tpl.Default = def
	} else {
		tpl.Default = zeroDefault(kind, tpl.Choices)
	}

	if err := tpl.Check(tpl.Default); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Default violates field constraints",
			Detail:   fmt.Sprintf("The default value for field '%s' violates its own constraints: %v.", fieldName, err),
			Subject:  &block.DefRange,
		})
		return nil, diags
	}

	return tpl, diags
}

// parseChoices handles the `choices` attribute, which is required on enum
// fields and forbidden everywhere else.
func parseChoices(tpl *Template, content *hcl.BodyContent) hcl.Diagnostics {
	var diags hcl.Diagnostics
	attr, exists := content.Attributes["choices"]

	if tpl.Kind != fieldkind.Enum {
		if exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid 'choices' attribute",
				Detail:   fmt.Sprintf("The 'choices' attribute is only valid on enum fields, but field '%s' has kind %s.", tpl.Name, tpl.Kind),
				Subject:  attr.Expr.Range().Ptr(),
			})
		}
		return diags
	}

	if !exists {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'choices' attribute",
			Detail:   fmt.Sprintf("Enum field '%s' must declare its choice list.", tpl.Name),
			Subject:  &content.MissingItemRange,
		})
		return diags
	}

	diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &tpl.Choices)...)
	if diags.HasErrors() {
		return diags
	}

	if len(tpl.Choices) == 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty 'choices' attribute",
			Detail:   fmt.Sprintf("Enum field '%s' must declare at least one choice.", tpl.Name),
			Subject:  attr.Expr.Range().Ptr(),
		})
		return diags
	}

	seen := make(map[string]bool, len(tpl.Choices))
	for _, choice := range tpl.Choices {
		if seen[choice] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate choice",
				Detail:   fmt.Sprintf("Enum field '%s' lists the choice '%s' more than once.", tpl.Name, choice),
				Subject:  attr.Expr.Range().Ptr(),
			})
		}
		seen[choice] = true
	}
	return diags
}

// parseNumberConstraints handles min, max, and multiple_of, which are only
// valid on the numeric kinds.
func parseNumberConstraints(tpl *Template, content *hcl.BodyContent) hcl.Diagnostics {
	var diags hcl.Diagnostics
	numeric := tpl.Kind == fieldkind.Integer || tpl.Kind == fieldkind.Float

	for _, name := range []string{"min", "max"} {
		attr, exists := content.Attributes[name]
		if !exists {
			continue
		}
		if !numeric {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Invalid '%s' attribute", name),
				Detail:   fmt.Sprintf("The '%s' attribute is only valid on integer and float fields, but field '%s' has kind %s.", name, tpl.Name, tpl.Kind),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		var bound float64
		boundDiags := gohcl.DecodeExpression(attr.Expr, nil, &bound)
		diags = append(diags, boundDiags...)
		if boundDiags.HasErrors() {
			continue
		}
		if tpl.Number == nil {
			tpl.Number = &NumberConstraints{}
		}
		if name == "min" {
			tpl.Number.Min = &bound
		} else {
			tpl.Number.Max = &bound
		}
	}

	if attr, exists := content.Attributes["multiple_of"]; exists {
		if tpl.Kind != fieldkind.Integer {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid 'multiple_of' attribute",
				Detail:   fmt.Sprintf("The 'multiple_of' attribute is only valid on integer fields, but field '%s' has kind %s.", tpl.Name, tpl.Kind),
				Subject:  attr.Expr.Range().Ptr(),
			})
		} else {
			var step int64
			stepDiags := gohcl.DecodeExpression(attr.Expr, nil, &step)
			diags = append(diags, stepDiags...)
			if !stepDiags.HasErrors() {
				if step <= 0 {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Invalid 'multiple_of' attribute",
						Detail:   fmt.Sprintf("The 'multiple_of' step for field '%s' must be a positive integer, got %d.", tpl.Name, step),
						Subject:  attr.Expr.Range().Ptr(),
					})
				} else {
					if tpl.Number == nil {
						tpl.Number = &NumberConstraints{}
					}
					tpl.Number.MultipleOf = &step
				}
			}
		}
	}

	if diags.HasErrors() || tpl.Number == nil {
		return diags
	}

	if tpl.Number.Min != nil && tpl.Number.Max != nil && *tpl.Number.Min > *tpl.Number.Max {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Impossible bounds",
			Detail:   fmt.Sprintf("Field '%s' declares min %g greater than max %g.", tpl.Name, *tpl.Number.Min, *tpl.Number.Max),
			Subject:  &content.MissingItemRange,
		})
		return diags
	}

	// The clamp projection steps along the multiple_of grid, so at least
	// one grid point must sit inside the bounds.
	if tpl.Number.MultipleOf != nil && tpl.Number.Min != nil && tpl.Number.Max != nil {
		m := float64(*tpl.Number.MultipleOf)
		if math.Ceil(*tpl.Number.Min/m)*m > math.Floor(*tpl.Number.Max/m)*m {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Impossible bounds",
				Detail:   fmt.Sprintf("No multiple of %d lies between %g and %g for field '%s'.", *tpl.Number.MultipleOf, *tpl.Number.Min, *tpl.Number.Max, tpl.Name),
				Subject:  &content.MissingItemRange,
			})
		}
	}
	return diags
}
