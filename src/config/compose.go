package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// allowedComposeServiceKeys are the service-level keys a custom compose
// overlay is expected to set. Anything else still works (compose merges
// it) but gets a warning so drift from the template is visible.
var allowedComposeServiceKeys = map[string]bool{
	"environment": true,
	"volumes":     true,
	"devices":     true,
	"ports":       true,
	"cap_add":     true,
	"extra_hosts": true,
}

// ValidateCompose checks that a compose document defines the
// devcontainer service. Compose overlays are consumed positionally by
// docker compose, so both the default and the custom file must carry the
// service entry.
func ValidateCompose(doc *Document) (warnings []string, err error) {
	_, err = composeService(doc)
	return nil, err
}

// ValidateComposeCustom checks a user-supplied compose overlay: it must
// define services.devcontainer, and service keys outside the expected
// override set produce warnings.
func ValidateComposeCustom(doc *Document) (warnings []string, err error) {
	svc, err := composeService(doc)
	if err != nil {
		return nil, err
	}
	if svc.Kind != yaml.MappingNode {
		return nil, nil
	}

	var unknown []string
	for i := 0; i+1 < len(svc.Content); i += 2 {
		key := svc.Content[i].Value
		if !allowedComposeServiceKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		warnings = append(warnings, fmt.Sprintf("%s: unknown keys: %s",
			filepath.Base(doc.Path), strings.Join(unknown, ", ")))
	}
	return warnings, nil
}

// composeService returns the services.devcontainer node, or
// ErrSchemaViolation when the document does not define it.
func composeService(doc *Document) (*yaml.Node, error) {
	root, err := doc.Mapping()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s: missing services.devcontainer", ErrSchemaViolation, doc.Path)
	}

	services := resolveAlias(mappingValue(root, "services"))
	if services == nil || services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: missing services.devcontainer", ErrSchemaViolation, doc.Path)
	}
	svc := resolveAlias(mappingValue(services, "devcontainer"))
	if svc == nil {
		return nil, fmt.Errorf("%w: %s: missing services.devcontainer", ErrSchemaViolation, doc.Path)
	}
	return svc, nil
}
