package config

import "errors"

// Validation failure taxonomy. All are fatal to a pre-start run and
// matchable with errors.Is.
var (
	// ErrMissingTemplateFile indicates a required template file or
	// directory is absent.
	ErrMissingTemplateFile = errors.New("missing template file")

	// ErrConfigParse indicates a document could not be parsed as YAML.
	ErrConfigParse = errors.New("config parse error")

	// ErrSchemaViolation indicates a document parsed but does not have
	// the expected structure.
	ErrSchemaViolation = errors.New("schema violation")
)
