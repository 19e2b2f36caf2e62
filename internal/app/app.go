package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lchat/internal/bell"
	"lchat/internal/chat"
	"lchat/internal/config"
	"lchat/internal/feed"
	"lchat/internal/store"
	"lchat/internal/system"
	"lchat/internal/tty"
)

// Start runs one chat session on the controlling terminal and returns when
// the user quits or a fatal error occurs. The terminal is restored before
// Start returns on every path.
func Start(ctx context.Context, o config.Options) error {
	return run(ctx, o, os.Stdin, os.Stdout)
}

func run(ctx context.Context, o config.Options, in, out *os.File) (err error) {
	session, err := tty.Open(in, out)
	if err != nil {
		return err
	}
	defer func() {
		// move below the prompt so the shell starts on a clean row
		_, _ = session.Write([]byte("\r\n"))
		if rerr := session.Restore(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	if o.Title != "" {
		if err := session.SetTitle(o.Title); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
	}

	src, err := feed.Open(ctx, feed.Options{
		Path:    o.OutFile,
		History: o.History,
		Filter:  o.Filter,
		Builtin: o.BuiltinTail,
	})
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer src.Close()

	commit := func(line []byte) error { return store.AppendLine(o.InFile, line) }
	loop := chat.New(chat.Config{
		Prompt:     o.Prompt,
		AllowEmpty: o.AllowEmpty,
		Bell:       o.Bell,
	}, session, commit, bell.Matcher{PatternFile: o.BellPattern})
	defer loop.Close()

	system.Logger.Info("session started", "in", o.InFile, "out", o.OutFile, "cols", session.Cols())
	err = loop.Run(ctx, in, src, session.Resized())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	system.Logger.Info("session ended", "err", err)
	return err
}
