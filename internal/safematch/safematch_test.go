package safematch

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_Regexp(t *testing.T) {
	m, ok := Exec(Regexp{Re: regexp.MustCompile(`b(\w+)`)}, "a bcd e")
	require.True(t, ok)
	assert.Equal(t, 2, m.Start)
	assert.Equal(t, 5, m.End)
	assert.Equal(t, "bcd", m.Group(0))
	assert.Equal(t, "cd", m.Group(1))
	assert.Equal(t, "", m.Group(7))
}

func TestExec_NoMatch(t *testing.T) {
	_, ok := Exec(Regexp{Re: regexp.MustCompile(`zzz`)}, "abc")
	assert.False(t, ok)
}

func TestExec_PanicIsNoMatch(t *testing.T) {
	boom := Func(func(string) (Match, bool) {
		panic("engine failure")
	})
	_, ok := Exec(boom, "anything")
	assert.False(t, ok)
}

func TestExec_NilMatcher(t *testing.T) {
	_, ok := Exec(nil, "abc")
	assert.False(t, ok)
}

func TestExec_OutOfRangeOffsets(t *testing.T) {
	bad := Func(func(text string) (Match, bool) {
		return Match{Start: 0, End: len(text) + 10}, true
	})
	_, ok := Exec(bad, "abc")
	assert.False(t, ok)
}

func TestExec_UnmatchedOptionalGroup(t *testing.T) {
	m, ok := Exec(Regexp{Re: regexp.MustCompile(`a(x)?b`)}, "ab")
	require.True(t, ok)
	assert.Equal(t, "", m.Group(1))
}
