package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// ClientConfig configures the upscale CLI.
type ClientConfig struct {
	APIURL    string
	Token     string
	LogLevel  string
	LogFormat string
}

func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	c := &ClientConfig{
		APIURL:    "http://localhost:8080",
		LogLevel:  "info",
		LogFormat: "console",
	}
	setString(&c.APIURL, "UPSCALE_API_URL")
	setString(&c.Token, "UPSCALE_TOKEN")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return nil, fmt.Errorf("invalid configuration: UPSCALE_API_URL must be an http(s) URL")
	}
	return c, nil
}
