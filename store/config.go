package store

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Config holds configuration for the Store.
type Config struct {
	// IDLength is the length of generated document ids.
	// Ignored when NewID is set.
	// Default: 20
	// Min: 8, Max: 32
	IDLength int

	// NewID generates ids for documents created without one.
	// Default: random hex ids of IDLength characters derived from UUIDv4.
	NewID func() string

	// Logger receives debug records for every write.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		IDLength: 20,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.IDLength == 0 {
		c.IDLength = 20
	}
	if c.IDLength < 8 {
		c.IDLength = 8
	}
	if c.IDLength > 32 {
		c.IDLength = 32
	}
	if c.NewID == nil {
		c.NewID = uuidGenerator(c.IDLength)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func uuidGenerator(n int) func() string {
	return func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
	}
}
