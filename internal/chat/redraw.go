package chat

import (
	"unicode/utf8"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// clear erases the prompt image left by the previous draw and leaves the
// cursor at column 0 of its first row.
func (l *Loop) clear() {
	if down := l.overhang - l.cursorRow; down > 0 {
		l.frame.WriteString(xansi.CursorDown(down))
	}
	for i := 0; i < l.overhang; i++ {
		l.frame.WriteByte('\r')
		l.frame.WriteString(xansi.EraseEntireLine)
		l.frame.WriteString(xansi.CursorUp(1))
	}
	l.frame.WriteByte('\r')
	l.frame.WriteString(xansi.EraseEntireLine)
	l.overhang, l.cursorRow = 0, 0
}

// draw writes the prompt and the edit line, then puts the cursor on the
// rune under the edit cursor.
func (l *Loop) draw() {
	l.frame.WriteString(l.cfg.Prompt)
	l.frame.Write(l.sl.Bytes())

	total := l.advance(l.promptWidth, l.sl.Bytes())
	l.overhang = total / l.cols
	l.cursorRow = l.overhang

	// a full last row leaves the cursor in the pending-wrap column
	if total > 0 && total%l.cols == 0 {
		l.frame.WriteString("\r\n")
	}

	if l.sl.RuneCursor() == l.sl.RuneLen() {
		return
	}
	at := l.advance(l.promptWidth, l.sl.Left())
	r, _ := utf8.DecodeRune(l.sl.Bytes()[l.sl.Cursor():])
	at = l.place(at, runewidth.RuneWidth(r))
	row, col := at/l.cols, at%l.cols
	if up := l.cursorRow - row; up > 0 {
		l.frame.WriteString(xansi.CursorUp(up))
	}
	l.frame.WriteByte('\r')
	// CUF with 0 moves one column on some terminals
	if col > 0 {
		l.frame.WriteString(xansi.CursorForward(col))
	}
	l.cursorRow = row
}

// place returns the cell a rune w columns wide lands on when written at cell
// pos. A wide rune that does not fit in the rest of the row starts the next
// one, leaving a blank cell behind.
func (l *Loop) place(pos, w int) int {
	if w > 1 && w <= l.cols && pos%l.cols+w > l.cols {
		return pos + l.cols - pos%l.cols
	}
	return pos
}

// advance returns the cell following text p written from cell pos.
func (l *Loop) advance(pos int, p []byte) int {
	for len(p) > 0 {
		r, n := utf8.DecodeRune(p)
		p = p[n:]
		w := runewidth.RuneWidth(r)
		pos = l.place(pos, w) + w
	}
	return pos
}
