package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyWriterRollsByDay(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriter(filepath.Join(dir, "logs"))
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "logs", "briefbank_2024-03-01.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "logs", "briefbank_2024-03-02.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(second))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"briefbank_2024-03-01.log",
		"briefbank_2024-03-05.log",
		"briefbank_2024-03-19.log",
		"briefbank_garbage.log",
		"other.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := Prune(dir, 14*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, left, 3)

	removed, err = Prune(filepath.Join(dir, "missing"), time.Hour, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
