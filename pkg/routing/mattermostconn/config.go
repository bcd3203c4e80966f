// Copyright 2024-2026 Aiku AI

package mattermostconn

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

// Config holds the Mattermost binding configuration.
type Config struct {
	ServerURL string `yaml:"server_url"`
	BotToken  string `yaml:"bot_token"`
	// BotUserID is the Mattermost user ID of the bot account. Leave empty
	// to resolve it from the token at connect time.
	BotUserID   string `yaml:"bot_user_id"`
	BotUsername string `yaml:"bot_username"`
	// ReplyInThread makes replies thread under the post they answer instead
	// of landing as top-level channel posts.
	ReplyInThread bool `yaml:"reply_in_thread"`
	// MentionOnly makes the listener deliver only posts that mention the
	// bot's username.
	MentionOnly bool `yaml:"mention_only"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

// PostProcess validates the config after unmarshalling.
func (c *Config) PostProcess() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	return nil
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.PostProcess(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
