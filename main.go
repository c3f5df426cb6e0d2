// main.go
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/katistix/envelope/internal/clock"
	"github.com/katistix/envelope/internal/phase"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath  string
		logFile     string
		logLevel    string
		fps         int
		noMouse     bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("envelope", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML card file (default: "+defaultConfigPath+" if present)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.IntVar(&fps, "fps", 0, "animation frames per second (overrides the card file)")
	flagSet.BoolVar(&noMouse, "no-mouse", false, "disable mouse input; use enter to advance")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Println("envelope", version)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	path, explicit := defaultConfigPath, false
	if configPath != "" {
		path, explicit = configPath, true
	}
	cfg, err := loadConfig(path, explicit, nil)
	if err != nil {
		return err
	}
	if flagSet.Changed("fps") {
		cfg.FPS = fps
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --fps: %w", err)
		}
	}
	if noMouse {
		cfg.Mouse = false
	}

	logger, closeLog, err := newLogger(logFile, logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	machine := phase.New(
		phase.WithClock(clock.Real()),
		phase.WithPeekDelay(cfg.PeekDelay),
		phase.WithLogger(logger),
	)
	defer machine.Close()

	options := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		options = append(options, tea.WithMouseCellMotion())
	}

	logger.Info("card starting",
		"version", version,
		"peek_delay", cfg.PeekDelay,
		"fps", cfg.FPS,
		"mouse", cfg.Mouse,
	)
	program := tea.NewProgram(newModel(cfg, machine, logger), options...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run card: %w", err)
	}
	return nil
}

// newLogger returns a JSON logger writing to path, or a logger that
// drops everything when path is empty. The TUI owns the terminal, so
// nothing is ever logged to stderr.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { f.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `envelope: a greeting card for the terminal.

Click the envelope (or press enter) to open it. The letter peeks out,
unfolds when clicked, and turns into flowers at the end.

The card is read from %s in the current directory when present.
Settings can also be given as ENVELOPE_* environment variables,
e.g. ENVELOPE_LETTER_TO=Alex.

Usage:
  envelope [flags]

Flags:
`, defaultConfigPath)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
