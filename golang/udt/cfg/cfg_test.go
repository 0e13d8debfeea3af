package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.Equal(t, zerolog.InfoLevel, settings.Level())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "udt.yaml")
	content := "min_node_weight: 1\npurity: 0.9\ndispersion: gini\nfolds: 5\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("UDT_FOLDS", "3")
	t.Setenv("UDT_THREADS", "4")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, settings.MinNodeWeight)
	assert.Equal(t, 0.9, settings.PurityThreshold)
	assert.Equal(t, "gini", settings.Dispersion)
	assert.Equal(t, 3, settings.Folds)
	assert.Equal(t, 4, settings.ThreadsNum)
	assert.Equal(t, 0.1, settings.Width)
	assert.Equal(t, zerolog.DebugLevel, settings.Level())

	params, err := settings.TreeParams()
	require.NoError(t, err)
	assert.Equal(t, 0.9, params.PurityThreshold)
	assert.NotNil(t, params.Search)
}

func TestLoadRejectsUnparsableEnvironment(t *testing.T) {
	for key, value := range map[string]string{"UDT_PURITY": "0,9", "UDT_FOLDS": "ten", "UDT_WIDTH": "not a number"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("purity: [1, 2]\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Settings){
		"purity":     func(s *Settings) { s.PurityThreshold = 0 },
		"weight":     func(s *Settings) { s.MinNodeWeight = -1 },
		"depth":      func(s *Settings) { s.MaxDepth = -1 },
		"dispersion": func(s *Settings) { s.Dispersion = "variance" },
		"search":     func(s *Settings) { s.SplitSearch = "udtbp" },
		"threads":    func(s *Settings) { s.ThreadsNum = 0 },
		"folds":      func(s *Settings) { s.Folds = 1 },
		"model":      func(s *Settings) { s.ErrorModel = "cauchy" },
		"samples":    func(s *Settings) { s.Samples = 0 },
		"width":      func(s *Settings) { s.Width = -0.1 },
		"log level":  func(s *Settings) { s.LogLevel = "loud" },
	}
	for name, modify := range cases {
		settings := Default()
		modify(&settings)
		assert.Error(t, settings.Validate(), name)
	}
	assert.NoError(t, Default().Validate())
}
