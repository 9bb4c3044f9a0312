package validation

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `{
  "type": "object",
  "properties": {
    "enabled": {"type": "boolean"},
    "rate": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "additionalProperties": false
}`

func TestSchemaValidateAcceptsDecodedDocument(t *testing.T) {
	schema := MustCompile("test.json", []byte(testSchema))

	doc := map[string]any{"enabled": true, "rate": 1}
	if err := schema.Validate("doc.yaml", doc); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestSchemaValidateCollectsIssues(t *testing.T) {
	schema := MustCompile("test.json", []byte(testSchema))

	err := schema.Validate("doc.yaml", map[string]any{"enabled": "yes", "rate": 2.5})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %#v", issues)
	}
	if !strings.HasPrefix(err.Error(), "doc.yaml: ") {
		t.Fatalf("expected source prefix, got %q", err.Error())
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	_, err := Compile("broken.json", []byte(`{"type": 12}`))
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
