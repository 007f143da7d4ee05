// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreateApplication(t *testing.T) {
	assert.NoError(t, ValidateCreateApplication([]byte(`{
		"company": "Acme",
		"position": "Backend Engineer",
		"job_type": "remote",
		"applied_date": "2026-08-20"
	}`)))

	// Missing required field.
	assert.Error(t, ValidateCreateApplication([]byte(`{"company": "Acme"}`)))

	// Empty required field.
	assert.Error(t, ValidateCreateApplication([]byte(`{"company": "", "position": "x"}`)))

	// Unknown job type literal.
	assert.Error(t, ValidateCreateApplication([]byte(`{
		"company": "Acme", "position": "x", "job_type": "freelance"
	}`)))

	// Status cannot be set at creation.
	assert.Error(t, ValidateCreateApplication([]byte(`{
		"company": "Acme", "position": "x", "status": "OFFER"
	}`)))

	// Malformed JSON.
	assert.Error(t, ValidateCreateApplication([]byte(`{"company": `)))
}

func TestValidateUpdateApplication(t *testing.T) {
	assert.NoError(t, ValidateUpdateApplication([]byte(`{}`)))
	assert.NoError(t, ValidateUpdateApplication([]byte(`{"notes": "pinged recruiter"}`)))

	// The record status is not patchable.
	assert.Error(t, ValidateUpdateApplication([]byte(`{"current_status": "OFFER"}`)))
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition([]byte(`{"status": "HR_INTERVIEW"}`)))
	assert.NoError(t, ValidateTransition([]byte(`{"status": "REJECTED", "note": "form letter"}`)))

	assert.Error(t, ValidateTransition([]byte(`{}`)))
	assert.Error(t, ValidateTransition([]byte(`{"status": "PROMOTED"}`)))
	assert.Error(t, ValidateTransition([]byte(`{"status": "OFFER", "force": true}`)))
}
