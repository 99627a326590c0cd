package governance

import "go.uber.org/zap/zapcore"

// Config for the governance engine.
type Config struct {
	// ProposalCacheSize is the number of decoded proposals kept in memory.
	ProposalCacheSize int `mapstructure:"proposal-cache-size"`
	// EventsBuffer is the number of recent events kept by the reporter.
	EventsBuffer int `mapstructure:"events-buffer"`
}

// DefaultConfig for the engine.
func DefaultConfig() Config {
	return Config{
		ProposalCacheSize: 1024,
		EventsBuffer:      100,
	}
}

func (c *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("proposal cache size", c.ProposalCacheSize)
	encoder.AddInt("events buffer", c.EventsBuffer)
	return nil
}
