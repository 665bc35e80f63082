package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsAnnotatedMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestUsersMigration_UniqueConstraints(t *testing.T) {
	body, err := fs.ReadFile(FS, "00001_create_users.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.True(t, strings.Contains(sql, "UNIQUE (username)"))
	assert.True(t, strings.Contains(sql, "UNIQUE (email)"))
}
