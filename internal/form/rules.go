package form

import (
	"regexp"
	"strings"
)

// Rule checks a single field's value against the whole form and returns a
// human-readable error message, or "" when the value is acceptable.
// Rules only read other fields' raw values, never their errors, so the
// evaluation order of a form's fields cannot change the outcome.
type Rule func(value string, s *State) string

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// isBlank reports whether a value is empty or whitespace-only.
// Blank values count as "not entered" for every rule.
func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// Required fails with msg when the value is empty or whitespace-only.
func Required(msg string) Rule {
	return func(value string, _ *State) string {
		if isBlank(value) {
			return msg
		}
		return ""
	}
}

// Phone checks the 10-digit phone format, but only when a value is present.
// Optional phone fields use this rule on its own; required ones chain it
// after Required.
func Phone(msg string) Rule {
	return func(value string, _ *State) string {
		if isBlank(value) {
			return ""
		}
		if !phonePattern.MatchString(value) {
			return msg
		}
		return ""
	}
}

// Email checks a minimal email shape (local@domain.tld), only when a value
// is present.
func Email(msg string) Rule {
	return func(value string, _ *State) string {
		if isBlank(value) {
			return ""
		}
		if !emailPattern.MatchString(value) {
			return msg
		}
		return ""
	}
}

// TagSet fails with msg when the CSV-encoded tag set holds no tags.
func TagSet(msg string) Rule {
	return func(value string, _ *State) string {
		if len(splitTags(value)) == 0 {
			return msg
		}
		return ""
	}
}

// When applies rule only while cond holds for the current form state.
// Used for the partner-info block, which is required only when the end
// customer type selector equals "Partner".
func When(cond func(*State) bool, rule Rule) Rule {
	return func(value string, s *State) string {
		if !cond(s) {
			return ""
		}
		return rule(value, s)
	}
}

// All chains rules and reports the first failure.
func All(rules ...Rule) Rule {
	return func(value string, s *State) string {
		for _, rule := range rules {
			if msg := rule(value, s); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// splitTags decodes a CSV-encoded tag set, dropping blank entries.
func splitTags(value string) []string {
	if isBlank(value) {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// joinTags encodes a tag set back into its CSV form-state value.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
