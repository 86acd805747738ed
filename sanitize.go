package proofstore

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// classPattern limits class attributes to the names chroma and the math
// markup emit. Anything else is stripped with the attribute.
var classPattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// sanitizer strips or neutralizes markup capable of executing script or
// escaping the display container. It strips rather than rejects, so it has
// no error channel, and sanitizing already-sanitized markup is a no-op.
type sanitizer struct {
	policy *bluemonday.Policy
}

// newSanitizer builds the display policy: bluemonday's UGC baseline plus
// class attributes on the elements chroma's highlighted code uses.
func newSanitizer() *sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(classPattern).OnElements("code", "pre", "span", "div")
	return &sanitizer{policy: policy}
}

// Sanitize returns markup safe for the display container. All structural and
// inline markup the policy knows is preserved; script-capable elements,
// event-handler attributes, and unsafe URL schemes are removed.
func (s *sanitizer) Sanitize(markup string) string {
	return s.policy.Sanitize(markup)
}
