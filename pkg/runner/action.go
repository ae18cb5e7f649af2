package runner

import (
	"strings"
	"unicode"
)

// Supported action verbs.
const (
	VerbClick = "click"
	VerbType  = "type"
)

// Action is a parsed --action argument.
//
//	click <text>               Target is the visible text
//	type <selector> <text...>  Target is the selector, Value the text
type Action struct {
	Raw    string
	Verb   string
	Target string
	Value  string
}

// ParseAction parses "<verb> <target> [value]". An empty string yields a
// nil action. Verbs are matched case-insensitively and words may be
// separated by any whitespace; the click text and the typed value keep
// their inner spacing.
func ParseAction(raw string) (*Action, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	verb, rest := splitWord(raw)

	switch strings.ToLower(verb) {
	case VerbClick:
		if rest == "" {
			return nil, &ActionError{Action: raw, Err: errMissingTarget}
		}
		return &Action{Raw: raw, Verb: VerbClick, Target: rest}, nil

	case VerbType:
		selector, value := splitWord(rest)
		if selector == "" {
			return nil, &ActionError{Action: raw, Err: errMissingSelector}
		}
		return &Action{
			Raw:    raw,
			Verb:   VerbType,
			Target: selector,
			Value:  value,
		}, nil

	default:
		return nil, &UnsupportedActionError{Verb: verb}
	}
}

// splitWord splits s at the first run of whitespace. Both parts are trimmed
// of surrounding whitespace.
func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// String returns the action as it would be written on the command line.
func (a *Action) String() string {
	if a.Verb == VerbType {
		return strings.TrimSpace(a.Verb + " " + a.Target + " " + a.Value)
	}
	return a.Verb + " " + a.Target
}
