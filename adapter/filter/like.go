package filter

import (
	"regexp"
	"strings"

	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// LikePattern translates a wildcard pattern into an anchored regular
// expression: '%' matches any run of characters, '_' exactly one, and
// everything else matches itself.
func LikePattern(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(`.*`)
		case '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return b.String()
}

// Like matches string fields against a case-sensitive wildcard pattern.
// Values built with NewLike compile the pattern once.
type Like struct {
	Key     string
	Pattern any
	re      *regexp.Regexp
}

// NewLike returns a Like with its pattern compiled.
func NewLike(key string, pattern any) Like {
	l := Like{Key: key, Pattern: pattern}
	if p, ok := pattern.(string); ok {
		l.re = regexp.MustCompile(LikePattern(p))
	}
	return l
}

// like reports whether the field matches. ok is false when the field is
// missing or either side is not a string.
func (f Like) like(doc domain.Document) (matched, ok bool) {
	v, present := lookup(doc, f.Key)
	if !present {
		return false, false
	}
	s, isStr := v.(string)
	if !isStr {
		return false, false
	}
	p, isStr := f.Pattern.(string)
	if !isStr {
		return false, false
	}
	re := f.re
	if re == nil {
		re = regexp.MustCompile(LikePattern(p))
	}
	return re.MatchString(s), true
}

// Match implements domain.Filter.
func (f Like) Match(doc domain.Document) bool {
	matched, ok := f.like(doc)
	return ok && matched
}

// NotLike matches string fields that do not match the pattern. Missing or
// non-string fields never match.
type NotLike struct {
	Like
}

// NewNotLike returns a NotLike with its pattern compiled.
func NewNotLike(key string, pattern any) NotLike {
	return NotLike{Like: NewLike(key, pattern)}
}

// Match implements domain.Filter.
func (f NotLike) Match(doc domain.Document) bool {
	matched, ok := f.like(doc)
	return ok && !matched
}
