package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultPort = "3001"

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	WebSocket WebSocketConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type WebSocketConfig struct {
	AllowedOrigins []string
	SendBufferSize int
	MaxMessageSize int64
	RateLimit      int
	RateWindow     time.Duration
}

// RedisConfig is optional; an empty URI disables connect rate limiting.
type RedisConfig struct {
	URI          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("HOST", "")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("SEND_BUFFER_SIZE", 256)
	v.SetDefault("MAX_MESSAGE_SIZE", 64*1024)
	v.SetDefault("WS_RATE_LIMIT", 30)
	v.SetDefault("WS_RATE_WINDOW", time.Minute)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("HOST"),
			Port:            strings.TrimSpace(v.GetString("PORT")),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			SendBufferSize: v.GetInt("SEND_BUFFER_SIZE"),
			MaxMessageSize: v.GetInt64("MAX_MESSAGE_SIZE"),
			RateLimit:      v.GetInt("WS_RATE_LIMIT"),
			RateWindow:     v.GetDuration("WS_RATE_WINDOW"),
		},
		Redis: RedisConfig{
			URI:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the relay cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Server.Port)
	}
	if c.WebSocket.SendBufferSize <= 0 {
		return fmt.Errorf("invalid SEND_BUFFER_SIZE %d: must be positive", c.WebSocket.SendBufferSize)
	}
	if c.WebSocket.MaxMessageSize <= 0 {
		return fmt.Errorf("invalid MAX_MESSAGE_SIZE %d: must be positive", c.WebSocket.MaxMessageSize)
	}
	if c.Redis.URI != "" && (c.WebSocket.RateLimit <= 0 || c.WebSocket.RateWindow <= 0) {
		return fmt.Errorf("WS_RATE_LIMIT and WS_RATE_WINDOW must be positive when REDIS_URL is set")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
