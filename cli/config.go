package cli

import (
	"os"

	"github.com/Dosada05/club-admin/client"
)

type Config struct {
	ServerURL string
	TokenFile string
	Output    string
	Verbose   bool
}

func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("CLUBCTL_SERVER", "http://localhost:8080"),
		TokenFile: getEnvOrDefault("CLUBCTL_TOKEN_FILE", client.DefaultTokenPath()),
		Output:    "text",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
