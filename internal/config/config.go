package config

import (
	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// HTTP server
	Port int `env:"PORT" envDefault:"8080"`

	// WeChat official account
	WeChatToken      string `env:"WECHAT_TOKEN,required"`
	WeChatAppID      string `env:"WECHAT_APP_ID,required"`
	WeChatAppSecret  string `env:"WECHAT_APP_SECRET,required"`
	WeChatAPIBaseURL string `env:"WECHAT_API_BASE_URL"`

	// Storage
	EssaysFilePath      string `env:"ESSAYS_FILE_PATH" envDefault:"data/essays.csv"`
	SubscribersFilePath string `env:"SUBSCRIBERS_FILE_PATH" envDefault:"data/subscribers.txt"`
	MessageLogFilePath  string `env:"MESSAGE_LOG_FILE_PATH" envDefault:"data/messages.csv"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
