package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init("warning", true, dir))
	require.Equal(t, logrus.WarnLevel, Logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, Logger.Formatter)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ".log", filepath.Ext(entries[0].Name()))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	require.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
}
