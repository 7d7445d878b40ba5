// Package ruleset checks a rules file's declared compatibility
// requirement against the rules-file format this checker implements,
// using semver range constraints. Grounded on the version-constraint
// resolution in a package manager's dependency resolver, narrowed here
// to a single fixed version being checked against a single constraint
// rather than a full dependency graph.
package ruleset

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// FormatVersion is the rules-file format version this binary implements.
// A rules file's "(require-version ...)" form is checked against it.
const FormatVersion = "1.0.0"

// CheckRequirement reports whether constraint, a semver range expression
// such as ">=1.0.0, <2.0.0", accepts FormatVersion. An empty constraint
// is accepted unconditionally.
func CheckRequirement(constraint string) error {
	c, err := parseConstraint(constraint)
	if err != nil {
		return fmt.Errorf("malformed version constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(FormatVersion)
	if err != nil {
		return fmt.Errorf("internal error: FormatVersion %q is not valid semver: %w", FormatVersion, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("rules file requires version %s, this checker implements %s", c.String(), FormatVersion)
	}

	return nil
}

func parseConstraint(expr string) (*semver.Constraints, error) {
	if strings.TrimSpace(expr) == "" {
		return semver.NewConstraint(">=0.0.0")
	}

	return semver.NewConstraint(expr)
}

// Unquote strips a single pair of surrounding double quotes, the form a
// "(require-version \"...\")" constraint argument is written in. The
// tokenizer has no string-literal kind of its own; a quoted word is
// still a single word token whose text includes the quote characters.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
