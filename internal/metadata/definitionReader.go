// The package used for reading and describing bridgeable object definitions.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// The range of definition schema versions this reader understands.
const SupportedSchema = ">= 1.0, < 2.0"

const defaultSchemaVersion = "1.0"

// ParseFailure is returned when a definition file cannot be turned into a
// syntax tree at all. Nothing is generated for a file that fails to parse.
type ParseFailure struct {
	Path string
	Err  error
}

func (e *ParseFailure) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse failure: %v", e.Err)
	}
	return fmt.Sprintf("parse failure in %s: %v", e.Path, e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

var supportedSchema = mustConstraint(SupportedSchema)

func mustConstraint(value string) version.Constraints {
	constraints, err := version.NewConstraint(value)
	if err != nil {
		panic(err)
	}
	return constraints
}

// Reads the definition file under given path.
func ReadDefinitions(path string) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}

	document, err := ParseDefinitions(bytes.NewReader(source))
	var parseFailure *ParseFailure
	if errors.As(err, &parseFailure) {
		parseFailure.Path = path
	}
	return document, err
}

// Decodes a definition document and checks its schema version.
func ParseDefinitions(reader io.Reader) (*Document, error) {
	var document Document
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{SchemaVersion: defaultSchemaVersion}, nil
		}
		return nil, &ParseFailure{Err: err}
	}

	if document.SchemaVersion == "" {
		document.SchemaVersion = defaultSchemaVersion
	}

	schema, err := version.NewVersion(document.SchemaVersion)
	if err != nil {
		return nil, &ParseFailure{Err: fmt.Errorf("invalid schema version %q: %w", document.SchemaVersion, err)}
	}
	if !supportedSchema.Check(schema) {
		return nil, &ParseFailure{Err: fmt.Errorf("schema version %s does not satisfy %s", schema, SupportedSchema)}
	}

	return &document, nil
}
