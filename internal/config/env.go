package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI string
	Gemini string
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() error {
	// Try to load .env file from current directory or project root
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// GetAPIKeys retrieves and validates API keys from environment variables
// Implements fail-fast: returns error immediately if a configured key is malformed
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		OpenAI: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Gemini: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
	}

	// Validate API key format (basic checks)
	if apiKeys.OpenAI != "" {
		if !strings.HasPrefix(apiKeys.OpenAI, "sk-") {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(apiKeys.OpenAI) < 20 {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}

	if apiKeys.Gemini != "" {
		if !strings.HasPrefix(apiKeys.Gemini, "AIza") {
			return nil, fmt.Errorf("invalid GEMINI_API_KEY format: must start with 'AIza'")
		}
		if len(apiKeys.Gemini) < 30 {
			return nil, fmt.Errorf("invalid GEMINI_API_KEY format: too short")
		}
	}

	return apiKeys, nil
}

// RequireAPIKeys validates that at least one API key is available.
// Embedding and synthesis operations need one; windowing and store inspection do not.
func RequireAPIKeys(apiKeys *APIKeys) error {
	if apiKeys.OpenAI == "" && apiKeys.Gemini == "" {
		return fmt.Errorf("this operation requires an API key - please set OPENAI_API_KEY or GEMINI_API_KEY in environment or .env file")
	}
	return nil
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("project root not found (no go.mod in any parent directory)")
}
