package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const tokenFileName = ".ftree_token"

// APIURL returns the base URL for the Family Tree API.
// It can be overridden with the FTREE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("FTREE_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken stores the access token in the user's home directory (0600).
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken reads the stored access token, or an error if not logged in.
func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RemoveToken deletes the stored token. Returns nil if no token was stored.
func RemoveToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
