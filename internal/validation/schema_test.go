package validation

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["code"],
  "properties": {
    "code": {"type": "string", "minLength": 1},
    "position": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

func TestSchemaValidate(t *testing.T) {
	schema, err := Compile("menu.json", []byte(testSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if err := schema.Validate(map[string]any{"code": "main", "position": 2}); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	err = schema.Validate(map[string]any{"position": -1, "extra": true})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected several issues, got %+v", issues)
	}
	if !strings.Contains(err.Error(), "#") {
		t.Fatalf("expected locations in message, got %q", err.Error())
	}
}

func TestSchemaValidateTypedValues(t *testing.T) {
	schema := MustCompile("", []byte(testSchema))
	doc := struct {
		Code string `json:"code"`
	}{Code: "footer"}
	if err := schema.Validate(doc); err != nil {
		t.Fatalf("expected struct to validate, got %v", err)
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesFallsBackToMessage(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if Issues(nil) != nil {
		t.Fatalf("expected nil issues for nil error")
	}
}
