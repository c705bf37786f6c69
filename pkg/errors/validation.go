package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxQueryLength bounds free-text search queries, in runes.
	MaxQueryLength = 256
	// MaxNameLength bounds project and package names, in bytes.
	MaxNameLength = 256
)

// ValidateQuery trims a search query and checks it is non-empty, at most
// [MaxQueryLength] runes and free of control characters. The trimmed query
// is returned so the search runs on exactly what was validated.
func ValidateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	switch {
	case q == "":
		return "", New(ErrCodeInvalidQuery, "query cannot be empty")
	case utf8.RuneCountInString(q) > MaxQueryLength:
		return "", New(ErrCodeInvalidQuery, "query too long (max %d characters)", MaxQueryLength)
	case strings.IndexFunc(q, unicode.IsControl) >= 0:
		return "", New(ErrCodeInvalidQuery, "query contains control characters")
	}
	return q, nil
}

// ValidateProjectName checks a project's full name ("owner/repo",
// "group/subgroup/project", "@scope/pkg") before it is placed in a
// registry URL. Slashes are allowed; empty segments, "..", backslashes
// and control characters are not.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPackage, "project name cannot be empty")
	case len(name) > MaxNameLength:
		return New(ErrCodeInvalidPackage, "project name too long (max %d characters)", MaxNameLength)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPackage, "project name contains control characters")
	}
	for _, bad := range []string{"..", "//", `\`} {
		if strings.Contains(name, bad) {
			return New(ErrCodeInvalidPackage, "project name contains %q", bad)
		}
	}
	return nil
}

// PEP 508 distribution names.
var pythonName = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePythonPackageName applies [ValidateProjectName] plus PEP 508.
func ValidatePythonPackageName(name string) error {
	if err := ValidateProjectName(name); err != nil {
		return err
	}
	if !pythonName.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Python package name: %q", name)
	}
	return nil
}

var npmName = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName applies [ValidateProjectName] plus npm's naming
// rules: lowercase, optionally scoped.
func ValidateNpmPackageName(name string) error {
	if err := ValidateProjectName(name); err != nil {
		return err
	}
	if !npmName.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}
	return nil
}
