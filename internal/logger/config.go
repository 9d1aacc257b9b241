package logger

import "fmt"

// DestinationKind selects where flushed batches are written.
type DestinationKind string

const (
	DestinationConsole     DestinationKind = "console"
	DestinationLocalFile   DestinationKind = "local_file"
	DestinationObjectStore DestinationKind = "object_store"
)

// Destination describes the logger's flush target. Exactly one of the
// kind-specific fields is meaningful, selected by Kind.
type Destination struct {
	Kind DestinationKind `yaml:"kind"`

	// DestinationLocalFile
	Path string `yaml:"path,omitempty"`

	// DestinationObjectStore
	Bucket    string `yaml:"bucket,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
}

// Config is the logger's configuration: destination plus the flush
// triggers from spec.md §6 (flush_interval_seconds >= 1, batch_size >= 1).
type Config struct {
	Destination          Destination `yaml:"destination"`
	FlushIntervalSeconds int         `yaml:"flush_interval_seconds"`
	BatchSize            int         `yaml:"batch_size"`
	ChannelBufferSize    int         `yaml:"channel_buffer_size"`
}

// Validate rejects configuration that would violate spec.md's bounds.
func (c Config) Validate() error {
	if c.FlushIntervalSeconds < 1 {
		return fmt.Errorf("logger: flush_interval_seconds must be >= 1, got %d", c.FlushIntervalSeconds)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("logger: batch_size must be >= 1, got %d", c.BatchSize)
	}
	switch c.Destination.Kind {
	case DestinationConsole:
	case DestinationLocalFile:
		if c.Destination.Path == "" {
			return fmt.Errorf("logger: local_file destination requires a path")
		}
	case DestinationObjectStore:
		if c.Destination.Bucket == "" || c.Destination.KeyPrefix == "" {
			return fmt.Errorf("logger: object_store destination requires bucket and key_prefix")
		}
	default:
		return fmt.Errorf("logger: unknown destination kind %q", c.Destination.Kind)
	}
	return nil
}

// DefaultConfig returns a sensible console-only default.
func DefaultConfig() Config {
	return Config{
		Destination:          Destination{Kind: DestinationConsole},
		FlushIntervalSeconds: 5,
		BatchSize:            100,
		ChannelBufferSize:    1000,
	}
}
