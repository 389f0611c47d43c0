package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/analysis_server/domain/models"
	"github.com/pivolan/analysis_server/plot"
)

func newTestStorage(t *testing.T) *Storage {
	dir := t.TempDir()
	s, err := NewStorage(filepath.Join(dir, "uploads"), filepath.Join(dir, "nested", "charts"))
	require.NoError(t, err)
	return s
}

func TestValidFileID(t *testing.T) {
	id := newFileID()
	assert.True(t, validFileID(id))
	assert.NotEqual(t, id, newFileID())

	for _, bad := range []string{"", "abc", "../etc/passwd", "0B6A4A9C-9F55-4C4E-8D0F-6E2D1F7C1A11", "{" + id + "}"} {
		assert.False(t, validFileID(bad), bad)
	}
}

func TestSaveAndRemoveUpload(t *testing.T) {
	s := newTestStorage(t)
	id := newFileID()

	path, err := s.SaveUpload(id, ".csv", []byte(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, id+".csv", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))

	require.NoError(t, s.RemoveUpload(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, s.RemoveUpload(path))
}

func TestChartFile(t *testing.T) {
	s := newTestStorage(t)
	id := newFileID()

	_, err := s.ChartFile(id, models.ChartBar, ".png")
	assert.True(t, errors.Is(err, ErrArtifactNotFound))

	want := filepath.Join(s.ChartDir(), plot.ChartFileName(id, models.ChartBar, ".png"))
	require.NoError(t, os.WriteFile(want, []byte("png"), 0o644))
	got, err := s.ChartFile(id, models.ChartBar, ".png")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.ChartFile("../"+id, models.ChartBar, ".png")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestRemoveOlderThan(t *testing.T) {
	s := newTestStorage(t)
	old := time.Now().Add(-3 * time.Hour)

	oldUpload, err := s.SaveUpload(newFileID(), ".csv", []byte("a\n1\n"))
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(oldUpload, old, old))
	fresh, err := s.SaveUpload(newFileID(), ".json", []byte("[]"))
	require.NoError(t, err)
	oldChart := filepath.Join(s.ChartDir(), plot.ChartFileName(newFileID(), models.ChartPie, ".png"))
	require.NoError(t, os.WriteFile(oldChart, []byte("png"), 0o644))
	require.NoError(t, os.Chtimes(oldChart, old, old))

	n, err := s.RemoveOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoFileExists(t, oldUpload)
	assert.NoFileExists(t, oldChart)
	assert.FileExists(t, fresh)
}
