package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessageIsDeterministic(t *testing.T) {
	ve := &ValidationError{
		StatusCode: 422,
		Fields: map[string]string{
			"start_date": "must be YYYY-MM-DD",
			"name":       "too long",
			"color":      "unknown token",
		},
	}

	want := "validation failed: color: unknown token; name: too long; start_date: must be YYYY-MM-DD"
	// Map iteration order varies run to run; the rendered message must not.
	for i := 0; i < 20; i++ {
		if got := ve.Error(); got != want {
			t.Fatalf("Error() = %q, want %q", got, want)
		}
	}
}

func TestValidationErrorNoFields(t *testing.T) {
	ve := &ValidationError{StatusCode: 409}
	if got := ve.Error(); got != "validation failed" {
		t.Errorf("Error() = %q, want %q", got, "validation failed")
	}
}

func TestTaxonomyHelpersMatchWrappedErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"network", fmt.Errorf("request: %w", &NetworkError{Err: errors.New("refused")}), IsNetwork},
		{"auth", fmt.Errorf("request: %w", &AuthError{StatusCode: 401}), IsAuth},
		{"not found", fmt.Errorf("request: %w", &NotFoundError{Resource: "habit", ID: "a"}), IsNotFound},
		{"validation", fmt.Errorf("request: %w", &ValidationError{StatusCode: 422}), IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("helper did not match wrapped %s error", tt.name)
			}
		})
	}
}
