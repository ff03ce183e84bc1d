package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is a YAML configuration document held as a node tree. Keeping
// the tree (rather than decoding to maps) preserves key order and
// comments from the source file through merge and re-serialization, and
// carries line/column positions into error messages.
type Document struct {
	// Path is the file the document was loaded from, used in error
	// messages. Empty for synthesized documents.
	Path string

	root *yaml.Node
}

// LoadDocument reads and parses a required document.
// A missing file is ErrMissingTemplateFile; malformed YAML is
// ErrConfigParse carrying the parser's line information.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingTemplateFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseDocument(path, data)
}

// LoadDocumentIfExists reads and parses an optional document, returning
// (nil, nil) when the file is absent.
func LoadDocumentIfExists(path string) (*Document, error) {
	doc, err := LoadDocument(path)
	if errors.Is(err, ErrMissingTemplateFile) {
		return nil, nil
	}
	return doc, err
}

func parseDocument(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return &Document{Path: path, root: &root}, nil
}

// IsEmpty reports whether the document carries no content: an absent,
// empty, comment-only, or explicit-null file.
func (d *Document) IsEmpty() bool {
	if d == nil || d.root == nil || d.root.Kind == 0 {
		return true
	}
	if d.root.Kind == yaml.DocumentNode {
		if len(d.root.Content) == 0 {
			return true
		}
		return d.root.Content[0].Tag == "!!null"
	}
	return false
}

// Mapping returns the document's root mapping node.
// A non-mapping root is ErrSchemaViolation; an empty document returns
// (nil, nil).
func (d *Document) Mapping() (*yaml.Node, error) {
	if d.IsEmpty() {
		return nil, nil
	}
	node := d.root
	if node.Kind == yaml.DocumentNode {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: root must be a mapping, got %s (line %d)",
			ErrSchemaViolation, d.Path, kindName(node), node.Line)
	}
	return node, nil
}

// Marshal serializes the document to YAML bytes.
func (d *Document) Marshal() ([]byte, error) {
	if d.IsEmpty() {
		return nil, nil
	}
	data, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", d.Path, err)
	}
	return data, nil
}

// Save writes the document to path atomically: the file either appears
// complete or not at all.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

// writeFileAtomic writes data via a temp file in the target directory
// followed by a rename.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	success = true
	return nil
}

// kindName names a node kind for error messages.
func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
