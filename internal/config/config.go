package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	AdminAddr       string        `mapstructure:"admin_addr" yaml:"admin_addr"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	DefaultRoom     string        `mapstructure:"default_room" yaml:"default_room"`
	HistorySize     int           `mapstructure:"history_size" yaml:"history_size"`
	EventQueueSize  int           `mapstructure:"event_queue_size" yaml:"event_queue_size"`
	MaxLineBytes    int           `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	ReadRetryDelay  time.Duration `mapstructure:"read_retry_delay" yaml:"read_retry_delay"`
	Styling         bool          `mapstructure:"styling" yaml:"styling"`
	EvictEmptyRooms bool          `mapstructure:"evict_empty_rooms" yaml:"evict_empty_rooms"`
	Console         bool          `mapstructure:"console" yaml:"console"`
	AuditDBPath     string        `mapstructure:"audit_db_path" yaml:"audit_db_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:            "0.0.0.0:8080",
		AdminAddr:       "127.0.0.1:8081",
		LogLevel:        "info",
		DefaultRoom:     "main",
		HistorySize:     15,
		EventQueueSize:  256,
		MaxLineBytes:    1024,
		ReadRetryDelay:  100 * time.Millisecond,
		Styling:         true,
		EvictEmptyRooms: false,
		Console:         true,
		AuditDBPath:     "",
		ShutdownTimeout: 5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Boolean switches are not merged; set them through the config file or env.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.AdminAddr != "" {
		c.AdminAddr = other.AdminAddr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DefaultRoom != "" {
		c.DefaultRoom = other.DefaultRoom
	}
	if other.HistorySize != 0 {
		c.HistorySize = other.HistorySize
	}
	if other.EventQueueSize != 0 {
		c.EventQueueSize = other.EventQueueSize
	}
	if other.MaxLineBytes != 0 {
		c.MaxLineBytes = other.MaxLineBytes
	}
	if other.ReadRetryDelay != 0 {
		c.ReadRetryDelay = other.ReadRetryDelay
	}
	if other.AuditDBPath != "" {
		c.AuditDBPath = other.AuditDBPath
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
