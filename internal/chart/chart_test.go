package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghweekly/ghweekly/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func buildTable(t *testing.T, repos []domain.Repo) *domain.WeeklyTable {
	rng, err := domain.NewDateRange(
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return domain.NewWeeklyTable(rng, repos)
}

func TestWritePNG(t *testing.T) {
	repoA := domain.Repo{Owner: "org", Name: "a"}
	repoB := domain.Repo{Owner: "org", Name: "b"}
	table := buildTable(t, []domain.Repo{repoA, repoB})
	table.Add(repoA, time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "weekly_commits.png")
	err := WritePNG(table, Options{User: "any-user"}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:4])
}

func TestWritePNG_EmptyTable(t *testing.T) {
	// Zero rows and zero columns must still produce a valid blank image.
	table := buildTable(t, nil)

	path := filepath.Join(t.TempDir(), "empty.png")
	err := WritePNG(table, Options{User: "any-user"}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:4])
}

func TestWritePNG_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly_commits.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	table := buildTable(t, []domain.Repo{{Owner: "org", Name: "a"}})
	require.NoError(t, WritePNG(table, Options{User: "any-user"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:4])
}

func TestWritePNG_UnwritablePath(t *testing.T) {
	table := buildTable(t, []domain.Repo{{Owner: "org", Name: "a"}})
	err := WritePNG(table, Options{User: "any-user"}, filepath.Join(t.TempDir(), "missing", "sub", "chart.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.png")
}

func TestWriteHTML(t *testing.T) {
	repoA := domain.Repo{Owner: "org", Name: "a"}
	table := buildTable(t, []domain.Repo{repoA})
	table.Add(repoA, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "weekly_commits.html")
	require.NoError(t, WriteHTML(table, Options{User: "any-user"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Weekly GitHub Contributions by Repo (any-user)")
	assert.Contains(t, string(data), "2025-01-06")
}

func TestWrite_SelectsFormatByExtension(t *testing.T) {
	table := buildTable(t, []domain.Repo{{Owner: "org", Name: "a"}})
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "chart.HTML")
	require.NoError(t, Write(table, Options{User: "u"}, htmlPath))
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html>")

	pngPath := filepath.Join(dir, "chart.png")
	require.NoError(t, Write(table, Options{User: "u"}, pngPath))
	data, err = os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:4])
}
