package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Metrics struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Repositories struct {
		SQLite struct {
			Path    string        `mapstructure:"path"`
			ChatTTL time.Duration `mapstructure:"chatTTL"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"repositories"`
	Services struct {
		LLM struct {
			BaseURL     string  `mapstructure:"baseURL"`
			Model       string  `mapstructure:"model"`
			Temperature float64 `mapstructure:"temperature"`
			MaxTokens   int64   `mapstructure:"maxTokens"`
		} `mapstructure:"llm"`
		Geocoder struct {
			BaseURL   string        `mapstructure:"baseURL"`
			UserAgent string        `mapstructure:"userAgent"`
			Timeout   time.Duration `mapstructure:"timeout"`
			CacheSize int           `mapstructure:"cacheSize"`
		} `mapstructure:"geocoder"`
		Routing struct {
			BaseURL string        `mapstructure:"baseURL"`
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"routing"`
		Weather struct {
			BaseURL  string        `mapstructure:"baseURL"`
			Timeout  time.Duration `mapstructure:"timeout"`
			CacheTTL time.Duration `mapstructure:"cacheTTL"`
		} `mapstructure:"weather"`
	} `mapstructure:"services"`
	Knowledge struct {
		CorpusDir string `mapstructure:"corpusDir"`
		TopK      int    `mapstructure:"topK"`
	} `mapstructure:"knowledge"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
