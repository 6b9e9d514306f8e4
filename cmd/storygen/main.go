// storygen renders a verse over a blurred background photo into a
// 1080x1920 story PNG.
//
// Usage:
//
//	storygen -message <text> -background <file> [-attribution <ref>] [-o <file>]
//	storygen serve [-addr 127.0.0.1:8080] [-open]
//	storygen fonts
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/xob0t/storygen/clients/server"
	"github.com/xob0t/storygen/pkg/generator"
	"github.com/xob0t/storygen/pkg/picker"
	"github.com/xob0t/storygen/pkg/staging"
	"github.com/xob0t/storygen/pkg/story"
)

const envPrefix = "STORYGEN"

var (
	colorDone  = color.New(color.FgGreen, color.Bold)
	colorError = color.New(color.FgRed, color.Bold)
	colorWarn  = color.New(color.FgYellow)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := realMain(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			colorError.Fprint(os.Stderr, "Error: ")
			fmt.Fprintln(os.Stderr, describe(err))
		}
		os.Exit(1)
	}
}

// describe turns err into the line shown to the user. Missing input gets
// the prompt text; anything else keeps its detail.
func describe(err error) string {
	switch {
	case story.IsInputError(err):
		return story.UserMessage(err)
	case errors.Is(err, picker.ErrCancelled):
		return story.PromptBackground
	default:
		var ge *story.GenerateError
		if errors.As(err, &ge) {
			return fmt.Sprintf("%s (%v)", story.FailureMessage, err)
		}
		return err.Error()
	}
}

// storyFlags are shared by every command that draws.
type storyFlags struct {
	font        string
	footer      string
	textColor   string
	shadowColor string
	staging     string
	verbose     bool
}

func (f *storyFlags) register(fs *flag.FlagSet) {
	def := story.DefaultConfig()
	fs.StringVar(&f.font, "font", "", "font file probed before the built-in candidate list")
	fs.StringVar(&f.footer, "footer", def.Footer, "footer label")
	fs.StringVar(&f.textColor, "text-color", generator.FormatHex(def.MessageColor), "message and footer colour, #rrggbb[aa]")
	fs.StringVar(&f.shadowColor, "shadow-color", generator.FormatHex(def.ShadowColor), "drop shadow colour, #rrggbb[aa]")
	fs.StringVar(&f.staging, "staging", staging.DefaultDir, "directory picked backgrounds are copied into")
	fs.BoolVar(&f.verbose, "v", false, "log debug detail to stderr")
}

func (f *storyFlags) config() (story.Config, error) {
	cfg := story.DefaultConfig()
	cfg.FontPath = strings.TrimSpace(f.font)
	cfg.Footer = f.footer

	text, err := generator.ParseHexRGBA(f.textColor)
	if err != nil {
		return cfg, fmt.Errorf("-text-color: %w", err)
	}
	shadow, err := generator.ParseHexRGBA(f.shadowColor)
	if err != nil {
		return cfg, fmt.Errorf("-shadow-color: %w", err)
	}
	cfg.MessageColor = text
	cfg.FooterColor = text
	cfg.ShadowColor = shadow
	return cfg, nil
}

// logger logs at level, or at Debug with -v.
func (f *storyFlags) logger(w io.Writer, level slog.Level) *slog.Logger {
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(envPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	exec := args[0]

	var (
		rootFlags   storyFlags
		message     string
		attribution string
		background  string
		output      string
	)
	rootFS := flag.NewFlagSet(exec, flag.ContinueOnError)
	rootFS.SetOutput(stderr)
	rootFS.StringVar(&message, "message", "", "verse text")
	rootFS.StringVar(&attribution, "attribution", "", "reference shown under the verse (blank: Anônimo)")
	rootFS.StringVar(&background, "background", "", "background image ("+strings.Join(staging.Extensions(), ", ")+")")
	rootFS.StringVar(&output, "o", story.DefaultOutput, "output PNG path")
	rootFS.String("config", "", "config file (one `flag value` per line)")
	rootFlags.register(rootFS)

	var (
		serveFlags storyFlags
		addr       string
		open       bool
	)
	serveFS := flag.NewFlagSet("serve", flag.ContinueOnError)
	serveFS.SetOutput(stderr)
	serveFS.StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	serveFS.BoolVar(&open, "open", false, "open the form in a browser")
	serveFS.String("config", "", "config file (one `flag value` per line)")
	serveFlags.register(serveFS)

	serveCmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: fmt.Sprintf("%v serve [-addr host:port] [-open]", exec),
		ShortHelp:  "Serve the story form over HTTP",
		FlagSet:    serveFS,
		Options:    options(),
		Exec: func(ctx context.Context, _ []string) error {
			cfg, err := serveFlags.config()
			if err != nil {
				return err
			}
			return server.RunServe(ctx, server.Config{
				Addr:       addr,
				StagingDir: serveFlags.staging,
				Story:      cfg,
				Open:       open,
				Logger:     serveFlags.logger(stderr, slog.LevelInfo),
			})
		},
	}

	var fontFlags storyFlags
	fontsFS := flag.NewFlagSet("fonts", flag.ContinueOnError)
	fontsFS.SetOutput(stderr)
	fontsFS.String("config", "", "config file (one `flag value` per line)")
	fontFlags.register(fontsFS)

	fontsCmd := &ffcli.Command{
		Name:       "fonts",
		ShortUsage: fmt.Sprintf("%v fonts [-font file]", exec),
		ShortHelp:  "Show which font file would be used",
		FlagSet:    fontsFS,
		Options:    options(),
		Exec: func(_ context.Context, _ []string) error {
			cfg, err := fontFlags.config()
			if err != nil {
				return err
			}
			c := story.New(cfg, story.WithLogger(fontFlags.logger(stderr, slog.LevelError)))
			set, release, err := c.Fonts()
			if err != nil {
				return err
			}
			defer release()

			if set.Degraded() {
				colorWarn.Fprintf(stdout, "fallback: no font file found among %d candidates\n", len(cfg.Candidates()))
				if set.Reason != nil {
					fmt.Fprintf(stdout, "reason: %v\n", set.Reason)
				}
				return nil
			}
			fmt.Fprintf(stdout, "%s: %s\n", set.Source, set.Path)
			return nil
		},
	}

	rootCmd := &ffcli.Command{
		Name:        exec,
		ShortUsage:  fmt.Sprintf("%v -message <text> -background <file> [flags] | <subcommand>", exec),
		FlagSet:     rootFS,
		Options:     options(),
		Subcommands: []*ffcli.Command{serveCmd, fontsCmd},
		Exec: func(ctx context.Context, _ []string) error {
			cfg, err := rootFlags.config()
			if err != nil {
				return err
			}
			// Status goes to stdout in colour; the log only carries detail.
			log := rootFlags.logger(stderr, slog.LevelError)

			if strings.TrimSpace(message) == "" {
				return story.ErrNoMessage
			}

			stager, err := staging.New(rootFlags.staging, log)
			if err != nil {
				return err
			}
			pick := picker.Staged{Picker: picker.Static(background), Stager: stager}
			staged, err := pick.Pick(ctx)
			if err != nil {
				if errors.Is(err, picker.ErrCancelled) {
					return story.ErrNoBackground
				}
				return err
			}

			set, release, err := story.New(cfg, story.WithLogger(log)).Fonts()
			if err != nil {
				return err
			}
			defer release()
			if set.Degraded() {
				colorWarn.Fprintln(stderr, "Warning: no font file found, using the built-in face")
			}

			c := story.New(cfg, story.WithLogger(log), story.WithFonts(set))

			out, err := c.Generate(story.Request{
				Message:     message,
				Attribution: attribution,
				Background:  staged,
				Output:      output,
			})
			if err != nil {
				return err
			}

			colorDone.Fprint(stdout, "Done: ")
			fmt.Fprintf(stdout, "Imagem salva: %s\n", out)
			return nil
		},
	}

	return rootCmd.ParseAndRun(ctx, args[1:])
}
