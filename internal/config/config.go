package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dotfiles read from the working directory.
const (
	PromptFile = ".prompt"
	TitleFile  = ".title"
	BellFile   = ".bellmatch"
	FilterFile = "./.filter"
)

// Options configures one chat session.
type Options struct {
	Dir     string // chat directory holding in and out
	InFile  string // outbound file, one line appended per commit
	OutFile string // feed file followed with tail
	Prompt  string
	Title   string // empty leaves the window title alone

	History     int  // lines of feed history shown at start
	Bell        bool // ring on feed updates matching BellPattern
	BellPattern string
	Filter      string // optional executable the feed is piped through
	AllowEmpty  bool   // commit empty lines instead of quitting

	BuiltinTail bool // follow OutFile in-process instead of spawning tail
}

// Default returns the built-in options for dir.
func Default(dir string) Options {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return Options{
		Dir:         dir,
		InFile:      filepath.Join(dir, "in"),
		OutFile:     filepath.Join(dir, "out"),
		Prompt:      ">",
		History:     5,
		Bell:        true,
		BellPattern: BellFile,
		Filter:      FilterFile,
	}
}

// Load returns Default(dir) with prompt and title taken from the first line
// of .prompt and .title in the working directory when they are readable.
func Load(dir string) Options {
	o := Default(dir)
	if s, ok := ReadFirstLine(PromptFile); ok {
		o.Prompt = s
	}
	if s, ok := ReadFirstLine(TitleFile); ok {
		o.Title = s
	}
	return o
}

// ReadFirstLine returns the first line of path without its line ending.
// ok is false when the file is missing, unreadable or empty.
func ReadFirstLine(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSuffix(sc.Text(), "\r"), true
}
