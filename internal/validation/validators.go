// Package validation provides input validation for values that end up
// embedded in file paths or git refs. This package has no dependencies
// to avoid import cycles.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// pathSafeRegex matches alphanumeric characters, underscores, and
// hyphens only. Used to validate identifiers before they are used to
// build file paths.
var pathSafeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateActorID validates that an actor id doesn't contain path
// separators, preventing path traversal when it's used to build a file
// path (e.g. .gitgov/actors/<id>.json).
func ValidateActorID(id string) error {
	if id == "" {
		return errors.New("validation: actor id cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") && !isActorIDShape(id) {
		return fmt.Errorf("validation: invalid actor id %q: contains path separators", id)
	}
	return nil
}

// isActorIDShape allows the one legitimate "/"-like separator an actor
// id contains: none — actor ids use ":" (human:alice), never "/". This
// helper exists so the rule above reads as "no separators, full stop"
// rather than silently special-casing something.
func isActorIDShape(string) bool { return false }

// ValidateRecordID rejects an empty record id and one containing a path
// separator ("/" or "\"). Other characters are not checked.
func ValidateRecordID(id string) error {
	if id == "" {
		return errors.New("validation: record id cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("validation: invalid record id %q: contains path separators", id)
	}
	return nil
}

// ValidateBranchName validates that a branch name is safe to pass to
// git (and to path.Join against a remote ref), rejecting the empty
// string and anything containing whitespace or "..".
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New("validation: branch name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") || strings.Contains(name, "..") {
		return fmt.Errorf("validation: invalid branch name %q", name)
	}
	return nil
}

// ValidatePathSafe validates that s contains only alphanumerics,
// underscores, and hyphens (used for scratch-directory tokens, lock
// tokens, and similar internally generated identifiers).
func ValidatePathSafe(s string) error {
	if s == "" {
		return nil
	}
	if !pathSafeRegex.MatchString(s) {
		return fmt.Errorf("validation: %q must be alphanumeric with underscores/hyphens only", s)
	}
	return nil
}
