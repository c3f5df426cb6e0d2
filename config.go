package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/katistix/envelope/internal/phase"
)

// --- CONFIGURATION ---

// defaultConfigPath is read when --config is not given. It may be absent.
const defaultConfigPath = "envelope.yaml"

// envPrefix namespaces the environment overrides.
const envPrefix = "ENVELOPE_"

// LetterContent is the text written on the letter.
type LetterContent struct {
	Intro   string `yaml:"intro" env:"INTRO"`
	To      string `yaml:"to" env:"TO"`
	Body    string `yaml:"body" env:"BODY"`
	SignOff string `yaml:"sign_off" env:"SIGN_OFF"`
	From    string `yaml:"from" env:"FROM"`
}

// Paragraphs splits the body on blank lines.
func (l LetterContent) Paragraphs() []string {
	var paragraphs []string
	for _, p := range strings.Split(strings.ReplaceAll(l.Body, "\r\n", "\n"), "\n\n") {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// PlainText is the letter as it would be written by hand, for the
// clipboard.
func (l LetterContent) PlainText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", l.To)
	for _, p := range l.Paragraphs() {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	if l.SignOff != "" {
		b.WriteString(l.SignOff)
		b.WriteString("\n")
	}
	b.WriteString(l.From)
	b.WriteString("\n")
	return b.String()
}

// CardConfig is the top-level structure of the config file.
type CardConfig struct {
	PeekDelay time.Duration `yaml:"peek_delay" env:"PEEK_DELAY"`
	FPS       int           `yaml:"fps" env:"FPS"`
	Hearts    int           `yaml:"hearts" env:"HEARTS"`
	Seed      uint64        `yaml:"seed" env:"SEED"`
	Mouse     bool          `yaml:"mouse" env:"MOUSE"`
	Caption   string        `yaml:"caption" env:"CAPTION"`

	Letter LetterContent `yaml:"letter" envPrefix:"LETTER_"`
}

// defaultConfig is the card that ships with the binary.
func defaultConfig() CardConfig {
	return CardConfig{
		PeekDelay: phase.DefaultPeekDelay,
		FPS:       30,
		Hearts:    20,
		Seed:      214,
		Mouse:     true,
		Caption:   "flowers for you",
		Letter: LetterContent{
			Intro: "for my favourite person :)",
			To:    "you",
			Body: `I wanted to write this down instead of just saying it, so you can open it whenever you need it.

Thank you for the patience, the late-night talks, and for laughing at my worst jokes. You make ordinary days feel like something worth remembering.

Whatever the next months bring, I'll be right here. Happy anniversary.`,
			SignOff: "With all my heart,",
			From:    "me",
		},
	}
}

// Validate reports the first setting that would leave the card unusable.
func (c CardConfig) Validate() error {
	switch {
	case c.PeekDelay <= 0:
		return fmt.Errorf("peek_delay must be positive, got %s", c.PeekDelay)
	case c.FPS < 1 || c.FPS > 120:
		return fmt.Errorf("fps must be between 1 and 120, got %d", c.FPS)
	case c.Hearts < 0:
		return fmt.Errorf("hearts must not be negative, got %d", c.Hearts)
	case len(c.Letter.Paragraphs()) == 0:
		return errors.New("letter body is empty")
	}
	return nil
}

// --- HELPER FUNCTIONS ---

// loadConfig builds the card configuration: built-in defaults, then the
// YAML file at path, then ENVELOPE_* environment variables. A missing
// file is only an error when the caller asked for it explicitly.
func loadConfig(path string, explicit bool, environ map[string]string) (CardConfig, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeConfig(data, &cfg); err != nil {
			return CardConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return CardConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return CardConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return CardConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeConfig overlays YAML onto cfg. Unknown keys are rejected so a
// misspelt setting doesn't silently fall back to its default.
func decodeConfig(data []byte, cfg *CardConfig) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
