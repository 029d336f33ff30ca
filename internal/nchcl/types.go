package nchcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
)

// KindFromExpr converts an HCL expression that represents a field type
// keyword (e.g. the bare identifier `float`) into its fieldkind.Kind.
//
// Unknown keywords are a manifest authoring error and surface as
// diagnostics, never as a runtime fallback: the kind set is closed, so a
// keyword either maps or the manifest is rejected at load time.
func KindFromExpr(expr hcl.Expression) (fieldkind.Kind, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	// We expect a simple identifier like `integer`, not a complex expression.
	// AbsTraversalForExpr is the right tool to validate this structure.
	traversal, hclDiags := hcl.AbsTraversalForExpr(expr)
	if hclDiags.HasErrors() || len(traversal) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a simple kind keyword like 'integer', 'float', or 'color', not a complex expression.",
			Subject:  expr.Range().Ptr(),
		})
		return fieldkind.Invalid, diags
	}

	keyword := traversal.RootName()
	kind, err := fieldkind.Parse(keyword)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported field kind",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid field kind. Supported kinds are: %s.", keyword, kindKeywords()),
			Subject:  expr.Range().Ptr(),
		})
		return fieldkind.Invalid, diags
	}
	return kind, diags
}

func kindKeywords() string {
	out := ""
	for i, k := range fieldkind.All() {
		if i > 0 {
			out += ", "
		}
		out += k.String()
	}
	return out
}
