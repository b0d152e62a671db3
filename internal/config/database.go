// internal/config/database.go
package config

import (
	"fmt"
	"path/filepath"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// UploadsDir is where product images land when S3 is not configured.
func (s *StorageConfig) UploadsDir() string {
	return filepath.Join(s.DataDir, "uploads")
}
