// Package jsonblock pulls a single JSON value out of a fenced code block in
// model output.
package jsonblock

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoBlock is returned by Decode when the text has no usable block.
var ErrNoBlock = errors.New("jsonblock: no valid markdown code block found")

const fence = "```"

// Raw returns the trimmed body of the first fenced block whose opening fence
// starts a line and is either bare or tagged "json". Only the first such
// block is considered.
func Raw(text string) (string, bool) {
	for from := 0; ; {
		open := lineStartFence(text, from)
		if open < 0 {
			return "", false
		}
		from = open + 1

		body := open + len(fence)
		if strings.HasPrefix(text[body:], "json\n") {
			body += len("json\n")
		} else if strings.HasPrefix(text[body:], "\n") {
			body++
		} else {
			continue
		}

		closeAt := lineStartFence(text, body)
		if closeAt < 0 {
			// No later fence can close either.
			return "", false
		}
		raw := text[body:closeAt]
		if raw == "" {
			return "", false
		}
		return strings.TrimSpace(raw), true
	}
}

// Extract parses the first JSON block into a T. It reports false when there
// is no block or the block is not valid JSON for T.
func Extract[T any](text string) (T, bool) {
	var v T
	if !ExtractInto(text, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// ExtractInto is Extract for a caller-supplied destination.
func ExtractInto(text string, v any) bool {
	return Decode(text, v) == nil
}

// Decode is ExtractInto with the failure reason.
func Decode(text string, v any) error {
	raw, ok := Raw(text)
	if !ok {
		return ErrNoBlock
	}
	return json.Unmarshal([]byte(raw), v)
}

func lineStartFence(text string, from int) int {
	for from <= len(text) {
		idx := strings.Index(text[from:], fence)
		if idx < 0 {
			return -1
		}
		q := from + idx
		if q == 0 || text[q-1] == '\n' {
			return q
		}
		from = q + 1
	}
	return -1
}
