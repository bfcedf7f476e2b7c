// Package safematch runs matchers against text without letting a misbehaving
// matcher take down the caller. A matcher that panics is treated as having
// found nothing, so a streaming caller can simply wait for more input.
package safematch

import "regexp"

// Match is a located match. Offsets are byte offsets into the searched text.
type Match struct {
	Start  int
	End    int
	Groups []string // Groups[0] is the whole match
}

// Group returns submatch i, or "" if it does not exist.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Matcher finds the leftmost match in text.
type Matcher interface {
	Match(text string) (Match, bool)
}

// Func adapts a plain function to a Matcher.
type Func func(text string) (Match, bool)

func (f Func) Match(text string) (Match, bool) {
	return f(text)
}

// Regexp adapts a compiled regular expression to a Matcher.
type Regexp struct {
	Re *regexp.Regexp
}

func (r Regexp) Match(text string) (Match, bool) {
	loc := r.Re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Match{}, false
	}
	m := Match{Start: loc[0], End: loc[1], Groups: make([]string, len(loc)/2)}
	for i := range m.Groups {
		if loc[2*i] >= 0 {
			m.Groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m, true
}

// Exec runs m against text. It never panics: a nil matcher, a panicking
// matcher, or a match with out-of-range offsets all report no match.
func Exec(m Matcher, text string) (match Match, ok bool) {
	if m == nil {
		return Match{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			match, ok = Match{}, false
		}
	}()
	match, ok = m.Match(text)
	if !ok {
		return Match{}, false
	}
	if match.Start < 0 || match.End < match.Start || match.End > len(text) {
		return Match{}, false
	}
	return match, true
}
