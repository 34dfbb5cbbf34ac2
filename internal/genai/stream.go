// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the hosted Coach chat API.
package genai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/jeranaias/coach-tui/internal/model"
)

// =============================================================================
// STREAM READER
// =============================================================================

// streamReader handles line-by-line JSON parsing of a streaming response
// body. Each non-empty line is one chatLine; the stream ends normally on a
// line with done=true or on EOF.
type streamReader struct {
	reader *bufio.Reader
}

// newStreamReader creates a stream reader over a response body.
func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{reader: bufio.NewReader(r)}
}

// process decodes lines and forwards fragments to out until the stream ends.
// Fragments are delivered in wire order; the reader never buffers more than
// one line, so the producer is consumed as fast as the receiver allows.
func (s *streamReader) process(ctx context.Context, out chan<- Fragment) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return &ClientError{Type: ErrTypeUnreachable, Message: "stream read failed", Cause: err}
		}
		atEOF := err == io.EOF

		frag, ok, lineErr := decodeLine(line)
		if lineErr != nil {
			return lineErr
		}
		if ok {
			select {
			case out <- frag:
			case <-ctx.Done():
				return ctx.Err()
			}
			if frag.Done {
				return nil
			}
		}

		if atEOF {
			// Server closed without a done marker; treat as normal end.
			select {
			case out <- Fragment{Done: true}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}
	}
}

// decodeLine parses one NDJSON line into a Fragment. Blank lines are
// skipped; an in-band error line terminates the stream abnormally.
func decodeLine(line []byte) (Fragment, bool, error) {
	trimmed := trimSpace(line)
	if len(trimmed) == 0 {
		return Fragment{}, false, nil
	}

	var cl chatLine
	if err := json.Unmarshal(trimmed, &cl); err != nil {
		// Skip malformed lines rather than killing the stream; the server
		// occasionally interleaves keep-alive noise.
		return Fragment{}, false, nil
	}

	if cl.Error != "" {
		return Fragment{}, false, &ClientError{Type: ErrTypeInvalidResponse, Message: cl.Error}
	}

	var sources []model.Source
	if len(cl.Sources) > 0 {
		sources = cl.Sources
	}

	return Fragment{TextDelta: cl.Text, Sources: sources, Done: cl.Done}, true, nil
}

// trimSpace trims ASCII whitespace without allocating.
func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
