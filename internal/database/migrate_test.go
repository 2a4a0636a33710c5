package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	set := GetMigrations()
	require.NotEmpty(t, set, "the binary must ship at least the init migration")

	last := 0
	for _, m := range set {
		assert.Greater(t, m.Version, last, "versions are strictly increasing")
		last = m.Version
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript, "every migration must be reversible")
	}

	init := GetMigrationByVersion(1)
	require.NotNil(t, init)
	assert.Equal(t, "init", init.Name)
	assert.Equal(t, "000001_init", init.String())
	assert.Contains(t, init.UpScript, "moderation_records")
	assert.Contains(t, init.UpScript, "appeals")

	assert.Nil(t, GetMigrationByVersion(999999))
}

func TestValidateAppliedVersions(t *testing.T) {
	t.Parallel()

	registered := []Migration{{Version: 1, Name: "init"}, {Version: 2, Name: "points"}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}

func TestIsMissingTableError(t *testing.T) {
	t.Parallel()

	assert.True(t, isMissingTableError(errors.New(`pq: relation "migration_logs" does not exist`)))
	assert.True(t, isMissingTableError(errors.New("no such table: migration_logs")))
	assert.False(t, isMissingTableError(errors.New("connection refused")))
}
