package store

import (
    "os"
    "path/filepath"
    "testing"
)

func TestAppendLine(t *testing.T) {
    path := filepath.Join(t.TempDir(), "in")
    if err := os.WriteFile(path, nil, 0o644); err != nil {
        t.Fatal(err)
    }

    if err := AppendLine(path, []byte("hi")); err != nil {
        t.Fatalf("AppendLine error: %v", err)
    }
    if err := AppendLine(path, []byte("héllo")); err != nil {
        t.Fatalf("AppendLine error: %v", err)
    }
    if err := AppendLine(path, nil); err != nil {
        t.Fatalf("AppendLine error: %v", err)
    }

    b, err := os.ReadFile(path)
    if err != nil {
        t.Fatal(err)
    }
    if got, want := string(b), "hi\nhéllo\n\n"; got != want {
        t.Fatalf("file = %q, want %q", got, want)
    }
}

func TestAppendLine_MissingFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "in")
    if err := AppendLine(path, []byte("x")); err == nil {
        t.Fatalf("expected error for missing file")
    }
    if _, err := os.Stat(path); !os.IsNotExist(err) {
        t.Fatalf("AppendLine created %s", path)
    }
}

func TestAppendLine_EmptyPath(t *testing.T) {
    if err := AppendLine(" ", []byte("x")); err == nil {
        t.Fatalf("expected error for empty path")
    }
}
