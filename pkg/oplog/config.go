package oplog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-opbuilder/pkg/events"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config selects how execution records are emitted.
type Config struct {
	// Level is the minimum slog level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`

	// Format selects the slog handler: json or text.
	Format string `json:"format" yaml:"format" validate:"oneof=json text"`

	AddSource bool `json:"add_source" yaml:"add_source"`

	Events EventsConfig `json:"events" yaml:"events"`
}

// EventsConfig controls publication of records as events.
type EventsConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Source   string        `json:"source" yaml:"source" validate:"required_if=Enabled true"`
	Attempts uint          `json:"attempts" yaml:"attempts" validate:"min=1,max=10"`
	Delay    time.Duration `json:"delay" yaml:"delay" validate:"min=0"`
}

// DefaultConfig returns JSON logging at info level with events disabled.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Events: EventsConfig{
			Source:   "oplog",
			Attempts: defaultEventAttempts,
			Delay:    defaultEventDelay,
		},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid oplog config: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML document over DefaultConfig and validates it.
// Unknown keys are rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode oplog config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps Level onto a slog.Level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewSlogLogger builds the slog logger described by cfg writing to w.
func NewSlogLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel(), AddSource: cfg.AddSource}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewSink builds the sink described by cfg: an slog sink writing to w, plus an
// EventSink publishing to publisher when events are enabled.
func NewSink(cfg Config, w io.Writer, publisher events.EventSink) Sink {
	logger := NewSlogLogger(cfg, w)
	slogSink := NewSlogSink(logger)
	if !cfg.Events.Enabled {
		return slogSink
	}

	return MultiSink{
		slogSink,
		NewEventSink(publisher,
			WithSource(cfg.Events.Source),
			WithDelivery(cfg.Events.Attempts, cfg.Events.Delay),
			WithDropLogger(logger),
		),
	}
}
