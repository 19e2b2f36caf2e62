package chat

import "errors"

var (
	// ErrFeedClosed is returned when the feed reaches end of stream.
	ErrFeedClosed = errors.New("feed closed")

	// ErrKeyboardClosed is returned when the keyboard read returns no data.
	ErrKeyboardClosed = errors.New("keyboard input closed")
)
