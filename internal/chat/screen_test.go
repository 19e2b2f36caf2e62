package chat

import (
	"context"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"
)

// vtTerm renders the loop output on a virtual terminal.
type vtTerm struct {
	emu  *vt.Emulator
	cols int
}

func newVTTerm(cols, rows int) *vtTerm {
	return &vtTerm{emu: vt.NewEmulator(cols, rows), cols: cols}
}

func (v *vtTerm) Write(p []byte) (int, error) { return v.emu.Write(p) }
func (v *vtTerm) Cols() int                   { return v.cols }

// lines returns the visible rows with styling and trailing blanks removed.
func (v *vtTerm) lines() []string {
	out := strings.ReplaceAll(v.emu.Render(), "\r\n", "\n")
	rows := strings.Split(out, "\n")
	for i, r := range rows {
		rows[i] = strings.TrimRight(xansi.Strip(r), " ")
	}
	return rows
}

func (v *vtTerm) cursor() (x, y int) {
	pos := v.emu.CursorPosition()
	return pos.X, pos.Y
}

func step(t *testing.T, l *Loop, ev Event) {
	t.Helper()
	if _, err := l.Step(context.Background(), ev); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestScreenCursorFollowsEdits(t *testing.T) {
	term := newVTTerm(20, 6)
	l := New(Config{Prompt: "> "}, term, (&commits{}).commit, nil)

	typeKeys(t, l, "hello")
	if x, y := term.cursor(); x != 7 || y != 0 {
		t.Fatalf("cursor = (%d,%d), want (7,0)", x, y)
	}
	typeKeys(t, l, "\x1b[D\x1b[D")
	if x, y := term.cursor(); x != 5 || y != 0 {
		t.Fatalf("cursor = (%d,%d), want (5,0)", x, y)
	}
	typeKeys(t, l, "\x7f")
	if got := term.lines()[0]; got != "> helo" {
		t.Fatalf("row 0 = %q, want %q", got, "> helo")
	}
	if x, _ := term.cursor(); x != 4 {
		t.Fatalf("cursor x = %d, want 4", x)
	}
}

func TestScreenWrappedLine(t *testing.T) {
	term := newVTTerm(10, 6)
	l := New(Config{Prompt: "> "}, term, (&commits{}).commit, nil)

	typeKeys(t, l, "abcdefghijkl")
	rows := term.lines()
	if rows[0] != "> abcdefgh" || rows[1] != "ijkl" {
		t.Fatalf("rows = %q", rows[:2])
	}
	if x, y := term.cursor(); x != 4 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (4,1)", x, y)
	}

	// home lands on the first row right after the prompt
	typeKeys(t, l, "\x1b[H")
	if x, y := term.cursor(); x != 2 || y != 0 {
		t.Fatalf("cursor after home = (%d,%d), want (2,0)", x, y)
	}

	// shrinking back to one row leaves no stale continuation
	typeKeys(t, l, "\x1b[F\x7f\x7f\x7f\x7f\x7f")
	rows = term.lines()
	if rows[0] != "> abcdefg" || rows[1] != "" {
		t.Fatalf("rows after shrink = %q", rows[:2])
	}
}

func TestScreenFeedAbovePrompt(t *testing.T) {
	term := newVTTerm(20, 6)
	l := New(Config{Prompt: "> "}, term, (&commits{}).commit, nil)

	typeKeys(t, l, "draft")
	step(t, l, Event{Feed: []byte("<bob> hi\r\n")})
	rows := term.lines()
	if rows[0] != "<bob> hi" || rows[1] != "> draft" {
		t.Fatalf("rows = %q", rows[:2])
	}
	if x, y := term.cursor(); x != 7 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (7,1)", x, y)
	}

	// a feed update while the draft wraps still clears the whole image
	term2 := newVTTerm(8, 6)
	l2 := New(Config{Prompt: "> "}, term2, (&commits{}).commit, nil)
	typeKeys(t, l2, "abcdefghij")
	step(t, l2, Event{Feed: []byte("news\r\n")})
	rows = term2.lines()
	if rows[0] != "news" || rows[1] != "> abcdef" || rows[2] != "ghij" {
		t.Fatalf("rows = %q", rows[:3])
	}
}

func TestScreenWideRuneAtRowEnd(t *testing.T) {
	term := newVTTerm(10, 6)
	l := New(Config{Prompt: "> "}, term, (&commits{}).commit, nil)

	// 日 does not fit in the last cell of row 0 and moves to row 1
	typeKeys(t, l, "1234567日x")
	if x, y := term.cursor(); x != 3 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (3,1)", x, y)
	}
	if l.Overhang() != 1 {
		t.Fatalf("overhang = %d, want 1", l.Overhang())
	}

	typeKeys(t, l, "\x1b[D")
	if x, y := term.cursor(); x != 2 || y != 1 {
		t.Fatalf("cursor on x = (%d,%d), want (2,1)", x, y)
	}
	typeKeys(t, l, "\x1b[D")
	if x, y := term.cursor(); x != 0 || y != 1 {
		t.Fatalf("cursor on wide rune = (%d,%d), want (0,1)", x, y)
	}
	typeKeys(t, l, "\x1b[D")
	if x, y := term.cursor(); x != 8 || y != 0 {
		t.Fatalf("cursor on 7 = (%d,%d), want (8,0)", x, y)
	}
}
