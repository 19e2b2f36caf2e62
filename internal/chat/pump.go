package chat

import (
	"context"
	"io"
)

// ReadSize bounds a single feed read, and with it the text handed to the
// alert predicate.
const ReadSize = 8192

type chunk struct {
	data []byte
	err  error
}

// pump copies reads from r onto the returned channel until a read fails.
// A failed read is delivered as a final chunk carrying the error.
func pump(ctx context.Context, r io.Reader, size int) <-chan chunk {
	c := make(chan chunk, 1)
	go func() {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			var ch chunk
			switch {
			case n > 0:
				ch.data = append([]byte(nil), buf[:n]...)
			case err == nil:
				err = io.ErrNoProgress
				fallthrough
			default:
				ch.err = err
			}
			select {
			case c <- ch:
			case <-ctx.Done():
				return
			}
			if ch.err != nil {
				return
			}
			if err != nil {
				// data arrived together with an error: deliver the error next
				select {
				case c <- chunk{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return c
}
