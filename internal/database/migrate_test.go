package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}

func TestInitMigrationDeclaresUniquenessConstraints(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)

	schema := string(body)
	assert.True(t, strings.Contains(schema, "UNIQUE (job_id, professor_id)"))
	assert.True(t, strings.Contains(schema, "UNIQUE (application_id)"))
	assert.True(t, strings.Contains(schema, "seq BIGSERIAL"))
}
