package runtime

import (
	"errors"
	"io"
	"strings"
)

// TemplateStream yields rendered fragments as the evaluator produces
// them. The render runs on its own goroutine and owns the context until
// the stream is exhausted.
type TemplateStream struct {
	chunks chan streamChunk
}

type streamChunk struct {
	text string
	err  error
}

// Stream starts rendering t against ctx and returns the fragment stream.
// Every fragment must be consumed, or the render goroutine blocks.
func (t *Template) Stream(ctx *Context) *TemplateStream {
	s := &TemplateStream{chunks: make(chan streamChunk, 1)}
	go func() {
		err := t.RenderTo(&streamWriter{stream: s}, ctx)
		if err != nil {
			s.chunks <- streamChunk{err: err}
		}
		close(s.chunks)
	}()
	return s
}

// Next returns the next rendered fragment. When the stream is exhausted
// io.EOF is returned. A render error is returned once, after the
// fragments produced before it.
func (s *TemplateStream) Next() (string, error) {
	chunk, ok := <-s.chunks
	if !ok {
		return "", io.EOF
	}
	if chunk.err != nil {
		return "", chunk.err
	}
	return chunk.text, nil
}

// Collect concatenates all remaining fragments into a single string. The
// text gathered so far is returned with a render error.
func (s *TemplateStream) Collect() (string, error) {
	var builder strings.Builder
	err := s.WriteTo(&builder)
	return builder.String(), err
}

// WriteTo copies the remaining fragments to w. It stops at the first
// render or write error but keeps draining so the render goroutine exits.
func (s *TemplateStream) WriteTo(w io.Writer) error {
	var writeErr error
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			return writeErr
		}
		if err != nil {
			if writeErr != nil {
				return writeErr
			}
			return err
		}
		if writeErr == nil {
			_, writeErr = io.WriteString(w, chunk)
		}
	}
}

type streamWriter struct {
	stream *TemplateStream
}

func (w *streamWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.stream.chunks <- streamChunk{text: string(p)}
	return len(p), nil
}
