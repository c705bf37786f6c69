package errors

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"react", "react", false},
		{"  vector database \t", "vector database", false},
		{"日本語 tokenizer", "日本語 tokenizer", false},
		{strings.Repeat("é", MaxQueryLength), strings.Repeat("é", MaxQueryLength), false},

		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", MaxQueryLength+1), "", true},
		{"foo\x00bar", "", true},
		{"foo\nbar", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateQuery(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !Is(err, ErrCodeInvalidQuery) {
			t.Errorf("ValidateQuery(%q) code = %s", tt.in, GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ValidateQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateProjectName(t *testing.T) {
	valid := []string{
		"react",
		"facebook/react",
		"gitlab-org/ci-cd/runner",
		"@angular/core",
		"meta-llama/Llama-3.1-8B",
	}
	for _, name := range valid {
		if err := ValidateProjectName(name); err != nil {
			t.Errorf("ValidateProjectName(%q) = %v", name, err)
		}
	}

	invalid := []string{
		"",
		strings.Repeat("x", MaxNameLength+1),
		"owner/../etc",
		"owner//repo",
		`owner\repo`,
		"repo\x7f",
		"repo\r\n",
	}
	for _, name := range invalid {
		err := ValidateProjectName(name)
		if !Is(err, ErrCodeInvalidPackage) {
			t.Errorf("ValidateProjectName(%q) = %v, want INVALID_PACKAGE", name, err)
		}
	}
}

func TestValidatePythonPackageName(t *testing.T) {
	for name, ok := range map[string]bool{
		"fastapi":           true,
		"Django":            true,
		"zope.interface":    true,
		"typing_extensions": true,
		"a":                 true,
		"-leading":          false,
		"trailing.":         false,
		"has space":         false,
		"scope/pkg":         false,
	} {
		if err := ValidatePythonPackageName(name); (err == nil) != ok {
			t.Errorf("ValidatePythonPackageName(%q) = %v, want ok=%v", name, err, ok)
		}
	}
}

func TestValidateNpmPackageName(t *testing.T) {
	for name, ok := range map[string]bool{
		"left-pad":     true,
		"@types/node":  true,
		"lodash.merge": true,
		"React":        false,
		"@scope":       false,
		"has space":    false,
		"@a/b/c":       false,
	} {
		if err := ValidateNpmPackageName(name); (err == nil) != ok {
			t.Errorf("ValidateNpmPackageName(%q) = %v, want ok=%v", name, err, ok)
		}
	}
}
