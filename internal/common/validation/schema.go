// internal/common/validation/schema.go

// Package validation checks inbound request payloads against JSON schemas.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var statusLiterals = []string{
	"APPLIED", "HR_INTERVIEW", "TECH_INTERVIEW", "CASE_STUDY",
	"OFFER", "REJECTED", "WITHDRAWN",
}

var jobTypeLiterals = []string{"remote", "hybrid", "onsite"}

var createApplicationSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"company", "position"},
	"properties": map[string]interface{}{
		"company":      map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 255},
		"position":     map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 255},
		"location":     map[string]interface{}{"type": "string", "maxLength": 255},
		"job_type":     map[string]interface{}{"type": "string", "enum": jobTypeLiterals},
		"source":       map[string]interface{}{"type": "string", "maxLength": 255},
		"applied_date": map[string]interface{}{"type": "string", "format": "date"},
		"notes":        map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

var updateApplicationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"company":      map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 255},
		"position":     map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 255},
		"location":     map[string]interface{}{"type": "string", "maxLength": 255},
		"job_type":     map[string]interface{}{"type": "string", "enum": jobTypeLiterals},
		"source":       map[string]interface{}{"type": "string", "maxLength": 255},
		"applied_date": map[string]interface{}{"type": "string", "format": "date"},
		"notes":        map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

var transitionSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"status"},
	"properties": map[string]interface{}{
		"status": map[string]interface{}{"type": "string", "enum": statusLiterals},
		"note":   map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

// ValidateCreateApplication checks a create payload before decoding.
func ValidateCreateApplication(body []byte) error {
	return validate(body, createApplicationSchema)
}

// ValidateUpdateApplication checks a partial-update payload.
func ValidateUpdateApplication(body []byte) error {
	return validate(body, updateApplicationSchema)
}

// ValidateTransition checks a status-change payload. The enum constraint
// rejects unknown status literals here, before the typed parse.
func ValidateTransition(body []byte) error {
	return validate(body, transitionSchema)
}

func validate(body []byte, schemaMap map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}
