package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
		body, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
	assert.Equal(t, []string{"00001_users.sql", "00002_portfolios.sql", "00003_resume_analyses.sql"}, names)
}

func TestPortfolioMigrationHasJSONColumns(t *testing.T) {
	body, err := fs.ReadFile(migrations, "migrations/00002_portfolios.sql")
	require.NoError(t, err)
	for _, col := range []string{
		"skills_json", "experience_json", "education_json", "projects_json",
		"strengths_json", "weaknesses_json", "job_recommendations_json",
	} {
		assert.True(t, strings.Contains(string(body), col+" TEXT"), col)
	}
}
