package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath       = "config.toml"
	DefaultStorePath        = "data/active_users.json"
	DefaultLanguage         = "ru-RU"
	DefaultSpeechEndpoint   = "http://www.google.com/speech-api/v2/recognize"
	DefaultSpeechTimeout    = 30
	DefaultFFmpegPath       = "ffmpeg"
	DefaultTranscodeTimeout = 120
	DefaultDownloadTimeout  = 60
	DefaultWorkDir          = "data/tmp"
)

// TokenEnvVar overrides telegram.token when set, so the bot token can stay
// out of the config file.
const TokenEnvVar = "TELEGRAM_TOKEN"

type Config struct {
	Log       LogConfig       `toml:"log"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Store     StoreConfig     `toml:"store"`
	Speech    SpeechConfig    `toml:"speech"`
	Transcode TranscodeConfig `toml:"transcode"`
	Download  DownloadConfig  `toml:"download"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TelegramConfig struct {
	Token string `toml:"token" validate:"required"`
}

type StoreConfig struct {
	Path string `toml:"path" validate:"required"`
}

type SpeechConfig struct {
	Language       string `toml:"language" validate:"required"`
	Endpoint       string `toml:"endpoint" validate:"required,url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
}

type TranscodeConfig struct {
	FFmpegPath     string `toml:"ffmpeg_path" validate:"required"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
}

type DownloadConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
	Dir            string `toml:"dir" validate:"required"`
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist. The Telegram token may come from the TELEGRAM_TOKEN
// environment variable instead of the file.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		Speech: SpeechConfig{
			Language:       DefaultLanguage,
			Endpoint:       DefaultSpeechEndpoint,
			TimeoutSeconds: DefaultSpeechTimeout,
		},
		Transcode: TranscodeConfig{
			FFmpegPath:     DefaultFFmpegPath,
			TimeoutSeconds: DefaultTranscodeTimeout,
		},
		Download: DownloadConfig{
			TimeoutSeconds: DefaultDownloadTimeout,
			Dir:            DefaultWorkDir,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if token := os.Getenv(TokenEnvVar); token != "" {
		cfg.Telegram.Token = token
	}

	return cfg, nil
}

// Validate checks that every field a running bot needs is present. A missing
// Telegram token is the most common failure and must abort startup.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}
