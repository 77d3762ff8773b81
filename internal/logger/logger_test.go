package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBuildAddsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := Build(&buf, zerolog.InfoLevel, "elplano", "test")

	log.Debug().Msg("hidden")
	log.Info().Str("component", "finder").Msg("visible")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "visible", entry["message"])
	require.Equal(t, "elplano", entry["service"])
	require.Equal(t, "test", entry["env"])
	require.Equal(t, "finder", entry["component"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, closer := New(Options{Level: "shouting"})
	require.NoError(t, closer.Close())
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "api.log")
	log, closer := New(Options{Level: "debug", File: file})
	log.Debug().Msg("to file")
	require.NoError(t, closer.Close())
	require.FileExists(t, file)
}
