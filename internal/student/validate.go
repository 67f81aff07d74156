package student

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names a validated input field.
type Field string

const (
	FieldID        Field = "id"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldGender    Field = "gender"
	FieldClass     Field = "class"
	FieldName      Field = "name" // Legacy single-column roster
)

// Field rules, shown to the user when validation fails.
const (
	RuleID           = "must be exactly 5 digits (0-9)"
	RulePersonalName = "must be 1 to 10 letters or hyphens"
	RuleGender       = "must be M or F"
	RuleClass        = "must be a single uppercase letter A-Z"
	RuleName         = "must be 1 to 30 letters, hyphens or spaces (quote names containing spaces)"
)

var (
	idPattern           = regexp.MustCompile(`^[0-9]{5}$`)
	personalNamePattern = regexp.MustCompile(`^[A-Za-z-]{1,10}$`)
	genderPattern       = regexp.MustCompile(`^[MF]$`)
	classPattern        = regexp.MustCompile(`^[A-Z]$`)
	namePattern         = regexp.MustCompile(`^[A-Za-z -]{1,30}$`)
)

// ValidationError reports a raw value that failed a field rule.
type ValidationError struct {
	Field Field
	Value string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Rule)
}

// ArgCountError reports the wrong number of positional values for a record.
type ArgCountError struct {
	Want int
	Got  int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("expected %d values (id first_name last_name gender class), got %d", e.Want, e.Got)
}

// check trims s and matches it against pattern.
func check(field Field, pattern *regexp.Regexp, rule, s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if !pattern.MatchString(trimmed) {
		return "", &ValidationError{Field: field, Value: s, Rule: rule}
	}
	return trimmed, nil
}

// ValidateID accepts exactly five ASCII digits.
func ValidateID(s string) (string, error) {
	return check(FieldID, idPattern, RuleID, s)
}

// ValidatePersonalName accepts a first or last name. field selects which one
// is reported on failure.
func ValidatePersonalName(field Field, s string) (string, error) {
	return check(field, personalNamePattern, RulePersonalName, s)
}

// ValidateGender accepts "M" or "F".
func ValidateGender(s string) (string, error) {
	return check(FieldGender, genderPattern, RuleGender, s)
}

// ValidateClass accepts one uppercase ASCII letter.
func ValidateClass(s string) (string, error) {
	return check(FieldClass, classPattern, RuleClass, s)
}

// ValidateName accepts a legacy roster name. Unlike the canonical fields,
// inner spaces are allowed.
func ValidateName(s string) (string, error) {
	return check(FieldName, namePattern, RuleName, s)
}
