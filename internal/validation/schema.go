package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// DocumentError surfaces every schema violation found in a document.
type DocumentError struct {
	Source string
	Issues []Issue
	Cause  error
}

func (e *DocumentError) Error() string {
	prefix := ErrSchemaValidation.Error()
	if e.Source != "" {
		prefix = e.Source + ": " + prefix
	}
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return prefix + ": " + e.Cause.Error()
		}
		return prefix
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *DocumentError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var docErr *DocumentError
	if errors.As(err, &docErr) && docErr != nil {
		return docErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectIssues(validationErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled JSON Schema (draft 2020-12).
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile parses raw as a JSON Schema registered under name.
func Compile(name string, raw []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is Compile for embedded schemas known to be valid.
func MustCompile(name string, raw []byte) *Schema {
	schema, err := Compile(name, raw)
	if err != nil {
		panic(err)
	}
	return schema
}

// Validate checks doc against the schema. doc may come from any decoder
// (YAML, TOML, JSON); it is normalised through JSON first so numbers and
// maps have the shapes the validator expects.
func (s *Schema) Validate(source string, doc any) error {
	normalized, err := normalize(doc)
	if err != nil {
		return &DocumentError{Source: source, Cause: err}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &DocumentError{Source: source, Issues: Issues(err), Cause: err}
	}
	return nil
}

func normalize(doc any) (any, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
