package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/tessera/internal/config"
)

// CheckExisting returns an error if dir already holds a tessera.yml.
func CheckExisting(dir string) error {
	path := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project already initialized\n\nFound existing: %s\n\nUse 'tessera init --force' to reinitialize (this will overwrite existing configuration)", config.DefaultFileName)
	}
	return nil
}
