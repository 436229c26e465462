package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/storage/postgres"
)

// PostgresFS embeds the holder snapshot and metadata cache schema.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// RunPostgresMigrations applies all embedded SQL files in lexical order.
// Migrations are expected to be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(PostgresFS, "postgres")
	if err != nil {
		return errors.Wrap(err, "read embedded postgres migrations")
	}

	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return errors.Wrapf(err, "read migration %s", file)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return errors.Wrapf(err, "apply migration %s", file)
		}
	}

	return nil
}

// sqlFiles lists the .sql files of dir in lexical order.
func sqlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
