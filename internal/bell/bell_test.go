package bell

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func needGrep(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("grep"); err != nil {
		t.Skip("grep not in PATH")
	}
}

func TestMatch(t *testing.T) {
	needGrep(t)
	pat := filepath.Join(t.TempDir(), ".bellmatch")
	if err := os.WriteFile(pat, []byte("alice\n^bob:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := Matcher{PatternFile: pat}

	cases := []struct {
		text string
		want bool
	}{
		{"12:00 <carol> hi alice\n", true},
		{"bob: ping\n", true},
		{"12:00 <carol> nothing here\n", false},
		{"", false},
	}
	for _, c := range cases {
		got, err := m.Match(context.Background(), []byte(c.text))
		if err != nil {
			t.Fatalf("Match(%q) error: %v", c.text, err)
		}
		if got != c.want {
			t.Errorf("Match(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestMatch_NoPatternFileAlwaysRings(t *testing.T) {
	m := Matcher{PatternFile: filepath.Join(t.TempDir(), "missing")}
	got, err := m.Match(context.Background(), []byte("anything"))
	if err != nil || !got {
		t.Fatalf("Match = %v, %v; want true, nil", got, err)
	}
	if got, _ := (Matcher{}).Match(context.Background(), nil); !got {
		t.Fatalf("empty PatternFile should always match")
	}
}

func TestMatch_MissingGrep(t *testing.T) {
	pat := filepath.Join(t.TempDir(), ".bellmatch")
	if err := os.WriteFile(pat, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := Matcher{PatternFile: pat, Grep: filepath.Join(t.TempDir(), "no-such-grep")}
	if _, err := m.Match(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error for missing grep binary")
	}
}
