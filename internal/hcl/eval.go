package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Roots of reference traversals.
const (
	rootDataNode = "data_node"
	rootTask     = "task"
)

// referencedIDs collects, per traversal root, every id named by a reference
// in decls, plus every declared id.
func referencedIDs(decls []*declaration) map[string]map[string]struct{} {
	ids := map[string]map[string]struct{}{
		rootDataNode: {},
		rootTask:     {},
	}
	for _, d := range decls {
		switch d.kind {
		case config.KindDataNode:
			ids[rootDataNode][d.id] = struct{}{}
		case config.KindTask:
			ids[rootTask][d.id] = struct{}{}
		}
		for _, attr := range d.attrs {
			for _, traversal := range attr.Expr.Variables() {
				known, ok := ids[traversal.RootName()]
				if !ok || len(traversal) < 2 {
					continue
				}
				if id, ok := stepName(traversal[1]); ok {
					known[id] = struct{}{}
				}
			}
		}
	}
	return ids
}

// stepName returns the id selected by data_node.id or data_node["id"].
func stepName(step hcl.Traverser) (string, bool) {
	switch s := step.(type) {
	case hcl.TraverseAttr:
		return s.Name, true
	case hcl.TraverseIndex:
		if s.Key.Type() == cty.String && s.Key.IsKnown() && !s.Key.IsNull() {
			return s.Key.AsString(), true
		}
	}
	return "", false
}

// newEvalContext exposes every id as a tagged section reference, decoded
// later by config.DecodeValue.
func newEvalContext(ids map[string]map[string]struct{}) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(ids))
	for root, set := range ids {
		refs := make(map[string]cty.Value, len(set))
		for id := range set {
			refs[id] = cty.StringVal(id + ":" + config.SuffixSection)
		}
		vars[root] = cty.ObjectVal(refs)
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

var envCasts = map[string]struct{}{"int": {}, "float": {}, "bool": {}, "str": {}}

// envFunc builds an environment placeholder: env("NAME") or env("NAME", "int").
var envFunc = function.New(&function.Spec{
	Description: "Returns a placeholder for an environment variable, resolved when the value is read.",
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "cast", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		placeholder := fmt.Sprintf("ENV[%s]", args[0].AsString())
		switch len(args) {
		case 1:
			return cty.StringVal(placeholder), nil
		case 2:
			cast := args[1].AsString()
			if _, ok := envCasts[cast]; !ok {
				return cty.NilVal, fmt.Errorf("unknown cast '%s', expected one of int, float, bool, str", cast)
			}
			return cty.StringVal(placeholder + ":" + cast), nil
		}
		return cty.NilVal, fmt.Errorf("env takes a variable name and an optional cast")
	},
})
