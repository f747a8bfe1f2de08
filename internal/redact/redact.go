package redact

import (
	"regexp"
)

// The patterns target credential material only. Identity values such
// as user ids (AIDA...), role ids (AROA...), and ARNs must pass
// through untouched.
var (
	// Access key ids carry the AKIA (long-term) or ASIA (temporary)
	// prefix followed by 16 uppercase base32 chars.
	accessKeyPattern = regexp.MustCompile(`(?:AKIA|ASIA)[A-Z2-7]{16}`)
	// Secret keys are exactly 40 base64-ish chars; session tokens are
	// far longer runs of the same alphabet.
	secretPattern = regexp.MustCompile(`[A-Za-z0-9/+=]{40,}`)
	jwtPattern    = regexp.MustCompile(`eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+`)
)

type Redactor struct{}

func New() *Redactor {
	return &Redactor{}
}

func (r *Redactor) RedactString(input string) string {
	input = jwtPattern.ReplaceAllString(input, "[REDACTED]")
	input = secretPattern.ReplaceAllString(input, "[REDACTED]")
	return accessKeyPattern.ReplaceAllString(input, "[REDACTED]")
}

func (r *Redactor) RedactMap(input map[string]any) map[string]any {
	output := map[string]any{}
	for k, v := range input {
		output[k] = r.RedactValue(v)
	}
	return output
}

func (r *Redactor) RedactValue(input any) any {
	switch v := input.(type) {
	case string:
		return r.RedactString(v)
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		redacted := make([]any, 0, len(v))
		for _, item := range v {
			redacted = append(redacted, r.RedactValue(item))
		}
		return redacted
	default:
		return input
	}
}
