package database

import (
	"testing"

	modelspkg "descubre/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesModerationTables(t *testing.T) {
	var hasRecord, hasAppeal bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.ModerationRecord:
			hasRecord = true
		case *modelspkg.Appeal:
			hasAppeal = true
		}
	}
	require.True(t, hasRecord, "PersistentModels should include ModerationRecord")
	require.True(t, hasAppeal, "PersistentModels should include Appeal")
}
