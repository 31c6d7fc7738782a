package config

import (
	"time"
)

// ChatConfig configures the websocket chat broker, which listens on its own
// port next to the HTTP API.
type ChatConfig struct {
	Port            int           `yaml:"port"`
	Path            string        `yaml:"path"`
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

func loadChatConfig() *ChatConfig {
	return &ChatConfig{
		Port:            getEnvAsInt("CHAT_PORT", 8080),
		Path:            getEnv("CHAT_PATH", "/ws"),
		ReadBufferSize:  getEnvAsInt("CHAT_READ_BUFFER_SIZE", 1024),
		WriteBufferSize: getEnvAsInt("CHAT_WRITE_BUFFER_SIZE", 1024),
		PingInterval:    getEnvAsDuration("CHAT_PING_INTERVAL", 54*time.Second),
		PongTimeout:     getEnvAsDuration("CHAT_PONG_TIMEOUT", 60*time.Second),
		MaxMessageSize:  int64(getEnvAsInt("CHAT_MAX_MESSAGE_SIZE", 4096)),
		AllowedOrigins:  getEnvAsSlice("CHAT_ALLOWED_ORIGINS", []string{"*"}),
	}
}
