package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// allowedPackageSections are the top-level sections a custom package
// document may set without a warning.
var allowedPackageSections = map[string]bool{
	"base":   true,
	"devenv": true,
}

// ValidatePackages checks the structural schema of the default package
// document: string image coordinates and a base section carrying a
// package list. Returns ErrSchemaViolation listing every violation.
func ValidatePackages(doc *Document) (warnings []string, err error) {
	root, err := doc.Mapping()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s: document is empty", ErrSchemaViolation, doc.Path)
	}

	var errs []string

	for _, field := range []string{"image_name", "image_tag"} {
		n := resolveAlias(mappingValue(root, field))
		switch {
		case n == nil:
			errs = append(errs, fmt.Sprintf("%s is required", field))
		case n.Kind != yaml.ScalarNode || n.Tag != "!!str":
			errs = append(errs, fmt.Sprintf("%s must be a string, got %s (line %d)", field, tagName(n), n.Line))
		}
	}

	base := resolveAlias(mappingValue(root, "base"))
	switch {
	case base == nil:
		errs = append(errs, "base section is required")
	case base.Kind != yaml.MappingNode:
		errs = append(errs, fmt.Sprintf("base must be a mapping, got %s (line %d)", kindName(base), base.Line))
	default:
		pkgs := resolveAlias(mappingValue(base, "packages"))
		switch {
		case pkgs == nil:
			errs = append(errs, "base.packages is required")
		case pkgs.Kind != yaml.SequenceNode:
			errs = append(errs, fmt.Sprintf("base.packages must be a sequence, got %s (line %d)", kindName(pkgs), pkgs.Line))
		}
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%w: %s: %s", ErrSchemaViolation, doc.Path, strings.Join(errs, "; "))
	}
	return warnings, nil
}

// ValidatePackagesCustom checks a user-supplied package override. An
// empty document is valid (no overrides); unknown top-level sections are
// warnings, never failures.
func ValidatePackagesCustom(doc *Document) (warnings []string, err error) {
	if doc == nil || doc.IsEmpty() {
		return nil, nil
	}
	root, err := doc.Mapping()
	if err != nil {
		return nil, err
	}

	var unknown []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if !allowedPackageSections[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		warnings = append(warnings, fmt.Sprintf("%s: unknown sections: %s",
			filepath.Base(doc.Path), strings.Join(unknown, ", ")))
	}
	return warnings, nil
}

// ImageRef returns the image_name and image_tag scalars from a merged
// document, with defaults when absent or malformed.
func (d *Document) ImageRef() (name, tag string) {
	name, tag = "ubuntu", "24.04"
	root, err := d.Mapping()
	if err != nil || root == nil {
		return name, tag
	}
	if n := resolveAlias(mappingValue(root, "image_name")); n != nil && n.Kind == yaml.ScalarNode && n.Value != "" {
		name = n.Value
	}
	if n := resolveAlias(mappingValue(root, "image_tag")); n != nil && n.Kind == yaml.ScalarNode && n.Value != "" {
		tag = n.Value
	}
	return name, tag
}

// tagName names a scalar's resolved YAML tag for error messages.
func tagName(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		return kindName(n)
	}
	return strings.TrimPrefix(n.Tag, "!!")
}
