// Package assets embeds the SQL migrations of the record archive.
package assets

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded migration file names in apply order.
func Migrations() ([]string, error) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)

	return files, nil
}

// Migration returns the SQL of the named migration file.
func Migration(name string) (string, error) {
	data, err := migrationsFS.ReadFile(path.Join(migrationsDir, name))
	if err != nil {
		return "", err
	}

	return string(data), nil
}
