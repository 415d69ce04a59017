package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/cstr/config"
	"github.com/rubiojr/cstr/log"
	"github.com/rubiojr/cstr/source"
	"github.com/rubiojr/cstr/str"
)

// errAbsent signals a failed search; it exits 1 without a message.
var errAbsent = errors.New("pattern not found")

// app carries what the root Before hook resolves for the subcommands.
type app struct {
	opts  []str.Option
	color bool
}

// Execute runs the cstr CLI with the given version string.
func Execute(version string) {
	root := newApp(version)
	if err := root.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errAbsent) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func newApp(version string) *cli.Command {
	a := &app{}
	return &cli.Command{
		Name:                   "cstr",
		Usage:                  "Manipulate text with growable NUL-terminated strings",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Policy configuration file (yaml, toml or json)",
				Sources: cli.EnvVars("CSTR_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Log buffer reallocations and operation status to stderr",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:  "replace",
				Usage: "Replace every occurrence of a pattern",
				Description: "Arguments are trimmed and parsing stops at an empty one. Pass empty or\n" +
					"whitespace patterns with --old/--new, or after a -- separator.",
				ArgsUsage: "[--old <old> --new <new> | [--] <old> <new>] [file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result to a file (.zst compresses)",
					},
					&cli.StringFlag{
						Name:  "old",
						Usage: "Pattern to replace, taken verbatim",
					},
					&cli.StringFlag{
						Name:  "new",
						Usage: "Replacement, taken verbatim (empty deletes matches)",
					},
				},
				Action: a.replaceAction,
			},
			{
				Name:        "append",
				Usage:       "Append text to the input",
				Description: "Texts after a -- separator are taken verbatim, whitespace included.",
				ArgsUsage:   "[--] <text>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Start from the content of a file instead of an empty string",
					},
				},
				Action: a.appendAction,
			},
			{
				Name:      "slice",
				Usage:     "Print the inclusive byte range [first, last]",
				ArgsUsage: "<first> <last> [file]",
				Action:    a.sliceAction,
			},
			{
				Name:      "contains",
				Usage:     "Exit 0 when the pattern occurs in the input, 1 otherwise",
				ArgsUsage: "<pattern> [file]",
				Action:    a.containsAction,
			},
			{
				Name:      "stats",
				Usage:     "Print length and capacity of the loaded input",
				ArgsUsage: "[file]",
				Action:    a.statsAction,
			},
			{
				Name:   "demo",
				Usage:  "Walk through every string operation",
				Action: a.demoAction,
			},
		},
	}
}

// setup loads the policy configuration and installs the logger.
func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	a.opts = cfg.Options()

	errw := cmd.Root().ErrWriter
	a.color = !cmd.Bool("no-color") && os.Getenv("NO_COLOR") == "" && isTerminal(errw)

	level := zerolog.WarnLevel
	if cmd.Bool("debug") {
		level = zerolog.DebugLevel
	}
	log.SetOutput(zerolog.ConsoleWriter{Out: errw, NoColor: !a.color}, level)
	return ctx, nil
}

// input loads the named file, or stdin when path is empty or "-".
func (a *app) input(cmd *cli.Command, path string) (*str.String, error) {
	if path != "" && path != "-" {
		return source.ReadFile(path, a.opts...)
	}
	in := cmd.Root().Reader
	if isTerminal(in) {
		return nil, fmt.Errorf("no input: pass a file or pipe data on stdin")
	}
	return source.Read(in, a.opts...)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch str.StatusOf(err) {
	case str.Success:
		return 0
	case str.AllocFailure:
		return 2
	case str.Underflow:
		return 3
	case str.IndexOutOfRange:
		return 4
	case str.InvalidArgument:
		return 5
	default:
		return 1
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// paint wraps s in an ANSI color when color output is enabled.
func (a *app) paint(color, s string) string {
	if !a.color {
		return s
	}
	return color + s + "\033[0m"
}

func out(cmd *cli.Command) io.Writer    { return cmd.Root().Writer }
func errOut(cmd *cli.Command) io.Writer { return cmd.Root().ErrWriter }
