package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Gemini    GeminiConfig    `toml:"gemini" mapstructure:"gemini"`
	Network   NetworkConfig   `toml:"network" mapstructure:"network"`
	Browser   BrowserConfig   `toml:"browser" mapstructure:"browser"`
	Video     VideoConfig     `toml:"video" mapstructure:"video"`
	Summarize SummarizeConfig `toml:"summarize" mapstructure:"summarize"`
	Logging   LoggingConfig   `toml:"logging" mapstructure:"logging"`
}

type SummarizeConfig struct {
	// APIKey for the remote reader service. Optional; raises rate limits.
	APIKey string `toml:"api_key" mapstructure:"api_key"`
}

type GeminiConfig struct {
	APIKey      string `toml:"api_key" mapstructure:"api_key"`
	Model       string `toml:"model" mapstructure:"model"`
	VisionModel string `toml:"vision_model" mapstructure:"vision_model"`
}

type NetworkConfig struct {
	Timeout      int    `toml:"timeout" mapstructure:"timeout"`
	UserAgent    string `toml:"user_agent" mapstructure:"user_agent"`
	BrowserAgent string `toml:"browser_agent" mapstructure:"browser_agent"`
}

type BrowserConfig struct {
	// CookieSource selects the browser whose cookies are injected into
	// fetches: off, auto, chrome, firefox, safari.
	CookieSource string            `toml:"cookie_source" mapstructure:"cookie_source"`
	Paths        map[string]string `toml:"paths" mapstructure:"paths"`
}

type VideoConfig struct {
	FfmpegPath    string  `toml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FfprobePath   string  `toml:"ffprobe_path" mapstructure:"ffprobe_path"`
	YtDlpPath     string  `toml:"ytdlp_path" mapstructure:"ytdlp_path"`
	WhisperPath   string  `toml:"whisper_path" mapstructure:"whisper_path"`
	WhisperModel  string  `toml:"whisper_model" mapstructure:"whisper_model"`
	FrameInterval float64 `toml:"frame_interval" mapstructure:"frame_interval"`
	MaxFrames     int     `toml:"max_frames" mapstructure:"max_frames"`
	BatchSize     int     `toml:"batch_size" mapstructure:"batch_size"`
	MaxDownloadMB int     `toml:"max_download_mb" mapstructure:"max_download_mb"`
}

type LoggingConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			VisionModel: "gemini-2.0-flash",
		},
		Network: NetworkConfig{
			Timeout:      30,
			UserAgent:    "",
			BrowserAgent: "auto",
		},
		Browser: BrowserConfig{
			CookieSource: "off",
			Paths:        map[string]string{},
		},
		Video: VideoConfig{
			FfmpegPath:    "ffmpeg",
			FfprobePath:   "ffprobe",
			YtDlpPath:     "yt-dlp",
			WhisperPath:   "whisper-cli",
			WhisperModel:  "",
			FrameInterval: 5,
			MaxFrames:     20,
			BatchSize:     5,
			MaxDownloadMB: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config from the given file, or from
// $XDG_CONFIG_HOME/smr/config.toml when empty. A missing file falls back to
// defaults; SMR_* env vars and GEMINI_API_KEY override.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return cfg, fmt.Errorf("error finding home directory: %w", err)
			}
			configHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath(filepath.Join(configHome, "smr"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SMR")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}
