package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const defaultChunkSize = 64

// readRaw reads plain text in reads of at most size bytes. A multi-byte
// character split by a read is held back until the rest of it arrives.
func readRaw(ctx context.Context, r io.Reader, size int, sink Sink) error {
	if size <= 0 {
		size = defaultChunkSize
	}
	buf := make([]byte, size)
	var pending []byte

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			complete, rest := splitComplete(pending)
			if len(complete) > 0 {
				if err := sink.ProcessChunk(string(complete)); err != nil {
					return err
				}
			}
			pending = append(pending[:0], rest...)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	// Whatever is left is an invalid tail; pass it on as is.
	if len(pending) > 0 {
		return sink.ProcessChunk(string(pending))
	}
	return nil
}

// splitComplete splits b before a trailing incomplete UTF-8 sequence.
func splitComplete(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i], b[i:]
		}
		break
	}
	return b, nil
}
