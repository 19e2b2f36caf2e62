package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lchat/internal/app"
	"lchat/internal/config"
	"lchat/internal/system"
)

var flags struct {
	noAlert bool
	empty   bool
	builtin bool
	history int
	prompt  string
	title   string
	in      string
	out     string
	logFile string
	debug   bool
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&flags.noAlert, "no-alert", "a", false, "do not ring the bell on feed updates")
	f.BoolVarP(&flags.empty, "empty", "e", false, "submit empty lines instead of quitting")
	f.BoolVarP(&flags.builtin, "builtin-tail", "b", false, "follow the out file in-process instead of running tail")
	f.IntVarP(&flags.history, "lines", "n", 5, "lines of history shown at start")
	f.StringVarP(&flags.prompt, "prompt", "p", "", "prompt (default: first line of .prompt, or \">\")")
	f.StringVarP(&flags.title, "title", "t", "", "terminal title (default: first line of .title)")
	f.StringVarP(&flags.in, "in", "i", "", "file committed lines are appended to (default: <directory>/in)")
	f.StringVarP(&flags.out, "out", "o", "", "file whose tail is shown (default: <directory>/out)")
	f.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	f.BoolVar(&flags.debug, "debug", false, "log every event (needs --log-file)")
}

var rootCmd = &cobra.Command{
	Use:   "lchat [flags] [directory]",
	Short: "Line-oriented front end for file based chat clients",
	Long: "lchat shows the tail of <directory>/out above an input line and appends\n" +
		"every committed line to <directory>/in. Submitting an empty line quits.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		o := options(cmd, dir)

		if flags.logFile != "" {
			restore, err := system.LogToFile(flags.logFile, flags.debug)
			if err != nil {
				return err
			}
			defer restore()
		} else {
			// stderr shares the screen with the prompt
			system.Logger.SetOutput(io.Discard)
			defer system.Logger.SetOutput(os.Stderr)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer cancel()
		return app.Start(ctx, o)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// options merges flags over the dotfile defaults.
func options(cmd *cobra.Command, dir string) config.Options {
	o := config.Load(dir)
	f := cmd.Flags()
	if f.Changed("prompt") {
		o.Prompt = flags.prompt
	}
	if f.Changed("title") {
		o.Title = flags.title
	}
	if f.Changed("in") {
		o.InFile = flags.in
	}
	if f.Changed("out") {
		o.OutFile = flags.out
	}
	o.History = flags.history
	o.Bell = !flags.noAlert
	o.AllowEmpty = flags.empty
	o.BuiltinTail = flags.builtin
	return o
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		system.Logger.Error(err.Error())
		os.Exit(1)
	}
}
