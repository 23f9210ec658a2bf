package tidemark

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	tidemarkDir = ".tidemark"
)

// GetTidemarkDir returns the path to the Tidemark directory in the user's home directory.
func GetTidemarkDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, tidemarkDir), nil
}
