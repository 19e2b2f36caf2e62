// Package slackline implements the single-line edit engine behind the lchat
// prompt.
//
// A SlackLine consumes raw terminal input one byte at a time and keeps three
// views of the line consistent:
//
//   - byte offsets into the UTF-8 encoded line (Len, Cursor)
//   - rune offsets, counted in whole codepoints (RuneLen, RuneCursor)
//   - an escape state tracking ESC and ESC [ introducers
//
// Multi-byte codepoints are assembled in a small pending buffer and only
// spliced into the line once the last continuation byte arrives, so the line
// never holds a partial codepoint.
//
// # Keys
//
// Backspace (DEL or BS) removes the codepoint left of the cursor. After ESC [
// the following sequences are understood:
//
//	D          cursor left
//	C          cursor right
//	H, 1~, 7~  home
//	F, 4~, 8~  end
//	3~         delete the codepoint under the cursor
//
// Parameter bytes are collected until the final byte, so every other
// sequence, including A and B (cursor up/down), PgUp/PgDn and modified keys
// like ESC [ 1 ; 5 C, is absorbed without touching the line.
//
// ESC followed by a byte other than [ ends the escape and the byte is handled
// as ordinary input. A second ESC is the exception: it keeps the engine
// waiting for [.
//
// The engine does no I/O and is not safe for concurrent use.
package slackline
