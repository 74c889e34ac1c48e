// Package password implements the configurable strength policy applied to
// new and changed passwords.
package password

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Attributes carries the user fields a password is checked against.
type Attributes struct {
	Username string
	Email    string
}

// Validator checks one rule. A non-empty return is the human-readable
// violation message.
type Validator interface {
	Validate(password string, attrs Attributes) string
}

// Policy runs every validator and collects all violations; it never
// short-circuits so the caller can report the full list at once.
type Policy struct {
	validators []Validator
}

func NewPolicy(validators ...Validator) Policy {
	return Policy{validators: validators}
}

// DefaultPolicy mirrors the usual chain: minimum length, not purely numeric,
// not a well-known password, not similar to the user's own attributes.
func DefaultPolicy(minLength int) Policy {
	return NewPolicy(
		MinimumLength(minLength),
		NotNumeric{},
		NewNotCommon(nil),
		NotSimilar{},
	)
}

func (p Policy) Validate(password string, attrs Attributes) []string {
	var violations []string
	for _, v := range p.validators {
		if msg := v.Validate(password, attrs); msg != "" {
			violations = append(violations, msg)
		}
	}
	return violations
}

// MinimumLength rejects passwords shorter than the configured rune count.
type MinimumLength int

func (m MinimumLength) Validate(password string, _ Attributes) string {
	if utf8.RuneCountInString(password) < int(m) {
		return fmt.Sprintf("this password is too short. it must contain at least %d characters", int(m))
	}
	return ""
}

// NotNumeric rejects passwords made up entirely of digits.
type NotNumeric struct{}

func (NotNumeric) Validate(password string, _ Attributes) string {
	if password == "" {
		return ""
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return "this password is entirely numeric"
}

// NotCommon rejects passwords appearing in a list of frequently used
// passwords. Comparison is case-insensitive.
type NotCommon struct {
	common map[string]struct{}
}

// NewNotCommon builds the validator from the given list, falling back to the
// embedded default list when nil.
func NewNotCommon(list []string) NotCommon {
	if list == nil {
		list = commonPasswords
	}
	common := make(map[string]struct{}, len(list))
	for _, p := range list {
		common[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return NotCommon{common: common}
}

func (c NotCommon) Validate(password string, _ Attributes) string {
	if _, ok := c.common[strings.ToLower(password)]; ok {
		return "this password is too common"
	}
	return ""
}

// NotSimilar rejects passwords that contain, or are contained in, the
// username or the local part of the email. Attributes shorter than three
// runes are ignored to avoid rejecting everything.
type NotSimilar struct{}

func (NotSimilar) Validate(password string, attrs Attributes) string {
	if password == "" {
		return ""
	}
	lowered := strings.ToLower(password)
	for _, attr := range []string{attrs.Username, localPart(attrs.Email)} {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if utf8.RuneCountInString(attr) < 3 {
			continue
		}
		if strings.Contains(lowered, attr) || strings.Contains(attr, lowered) {
			return "this password is too similar to your other personal information"
		}
	}
	return ""
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
