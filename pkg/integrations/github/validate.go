package github

import (
	"regexp"
	"strings"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateRepoRef validates an owner and repository name pair before it is
// interpolated into a raw-content URL.
func ValidateRepoRef(owner, repo string) error {
	if !validOwner.MatchString(owner) {
		return errs.New(errs.ErrCodeInvalidPackage, "invalid github owner %q", owner)
	}
	if repo == "." || repo == ".." || !validRepo.MatchString(repo) {
		return errs.New(errs.ErrCodeInvalidPackage, "invalid github repository %q", repo)
	}
	return nil
}

// SplitFullName splits "owner/repo" and validates both halves.
func SplitFullName(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok {
		return "", "", errs.New(errs.ErrCodeInvalidPackage, "expected owner/repo, got %q", fullName)
	}
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
