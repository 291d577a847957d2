package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	schema "github.com/yigit/collegeerp/migrations"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("migrations/002_marks.sql"))
}

func TestEmbeddedSchemaIsOrdered(t *testing.T) {
	entries, err := fs.ReadDir(schema.Files, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_init.sql", entries[0].Name())

	content, err := fs.ReadFile(schema.Files, "001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "auth_tokens", "assign_times", "attendance_totals", "marks_classes"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
