package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// mergePolicy says how a key in the custom document combines with the
// same key in the default document.
type mergePolicy int

const (
	// policyOverride replaces the default value wholesale.
	policyOverride mergePolicy = iota
	// policyAppend concatenates sequences, default elements first.
	policyAppend
	// policySection descends into a nested mapping and merges per key.
	policySection
)

// mergePolicies is the per-key merge policy table, keyed by dotted path
// from the document root. The table is deliberately explicit and closed:
// any key not listed merges by override. Structural inference (deep-merge
// everything that looks like a mapping) is exactly what this avoids.
var mergePolicies = map[string]mergePolicy{
	"image_name":          policyOverride,
	"image_tag":           policyOverride,
	"base":                policySection,
	"base.packages":       policyAppend,
	"base.python_tools":   policyAppend,
	"devenv":              policySection,
	"devenv.packages":     policyAppend,
	"devenv.python_tools": policyAppend,
}

func policyFor(path string) mergePolicy {
	if p, ok := mergePolicies[path]; ok {
		return p
	}
	return policyOverride
}

// Merge combines the custom document into a copy of the default document
// under the per-key policy table. Neither input is modified. An empty or
// nil custom document yields a copy of the default unchanged.
//
// Shape conflicts on tabled keys are ErrSchemaViolation: an append key
// where either side is not a sequence, or a section key where either
// side is not a mapping.
func Merge(def, custom *Document) (*Document, error) {
	defRoot, err := def.Mapping()
	if err != nil {
		return nil, err
	}
	if defRoot == nil {
		return nil, fmt.Errorf("%w: %s: document is empty", ErrSchemaViolation, def.Path)
	}

	merged := &Document{Path: def.Path, root: copyNode(def.root)}
	if custom == nil || custom.IsEmpty() {
		return merged, nil
	}

	customRoot, err := custom.Mapping()
	if err != nil {
		return nil, err
	}

	mergedRoot, err := merged.Mapping()
	if err != nil {
		return nil, err
	}
	if err := mergeMapping(mergedRoot, customRoot, "", custom.Path); err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeMapping applies src's keys onto dst under the policy table.
// prefix is the dotted path of dst within the document; srcPath names the
// custom file for error messages.
func mergeMapping(dst, src *yaml.Node, prefix, srcPath string) error {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key := src.Content[i].Value
		val := resolveAlias(src.Content[i+1])

		keyPath := key
		if prefix != "" {
			keyPath = prefix + "." + key
		}

		existing := resolveAlias(mappingValue(dst, key))

		switch policyFor(keyPath) {
		case policyAppend:
			if val.Kind != yaml.SequenceNode {
				return fmt.Errorf("%w: %s: %s must be a sequence, got %s (line %d)",
					ErrSchemaViolation, srcPath, keyPath, kindName(val), val.Line)
			}
			if existing == nil {
				setMappingValue(dst, key, copyNode(val))
				break
			}
			if existing.Kind != yaml.SequenceNode {
				return fmt.Errorf("%w: %s: cannot extend %s: default value is a %s, not a sequence",
					ErrSchemaViolation, srcPath, keyPath, kindName(existing))
			}
			for _, item := range val.Content {
				existing.Content = append(existing.Content, copyNode(item))
			}

		case policySection:
			if val.Kind != yaml.MappingNode {
				return fmt.Errorf("%w: %s: %s must be a mapping, got %s (line %d)",
					ErrSchemaViolation, srcPath, keyPath, kindName(val), val.Line)
			}
			if existing == nil {
				setMappingValue(dst, key, copyNode(val))
				break
			}
			if existing.Kind != yaml.MappingNode {
				return fmt.Errorf("%w: %s: cannot merge into %s: default value is a %s, not a mapping",
					ErrSchemaViolation, srcPath, keyPath, kindName(existing))
			}
			if err := mergeMapping(existing, val, keyPath, srcPath); err != nil {
				return err
			}

		default:
			setMappingValue(dst, key, copyNode(val))
		}
	}
	return nil
}

// mappingValue returns the value node for key in a mapping, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// setMappingValue replaces the value for key, appending the pair when
// the key is absent.
func setMappingValue(m *yaml.Node, key string, val *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val,
	)
}

// resolveAlias follows alias nodes to their anchor target.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// copyNode deep-copies a node tree. Aliases are materialized and anchors
// dropped so copied subtrees stand alone in the output document.
func copyNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return copyNode(n.Alias)
	}
	c := *n
	c.Anchor = ""
	c.Alias = nil
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = copyNode(child)
		}
	}
	return &c
}
