package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"gopkg.in/yaml.v3"
)

//Settings collect parameters of tree induction, evaluation, data generation and storage.
type Settings struct {
	MinNodeWeight   float64 `yaml:"min_node_weight"`
	PurityThreshold float64 `yaml:"purity"`
	MaxDepth        int     `yaml:"max_depth"`
	Dispersion      string  `yaml:"dispersion"`
	SplitSearch     string  `yaml:"split_search"`
	ThreadsNum      int     `yaml:"threads"`
	Folds           int     `yaml:"folds"`

	ErrorModel string  `yaml:"error_model"`
	Samples    int     `yaml:"samples"`
	Width      float64 `yaml:"width"`
	Seed       int64   `yaml:"seed"`

	LogLevel  string `yaml:"log_level"`
	StorePath string `yaml:"store_path"`
}

//Default returns settings used when neither the file nor the environment set a value.
func Default() Settings {
	return Settings{
		MinNodeWeight:   2,
		PurityThreshold: 1,
		Dispersion:      "entropy",
		SplitSearch:     "udt",
		ThreadsNum:      1,
		Folds:           10,
		ErrorModel:      "gaussian",
		Samples:         100,
		Width:           0.1,
		Seed:            1,
		LogLevel:        "info",
		StorePath:       "udt.db",
	}
}

//Load reads .env from the working directory if it exists, then the YAML file when path is not empty,
//then UDT_* environment variables.
func Load(path string) (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load .env: %w", err)
	}

	settings := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var envErr error
	settings.MinNodeWeight = getFloatOrDefault("UDT_MIN_NODE_WEIGHT", settings.MinNodeWeight, &envErr)
	settings.PurityThreshold = getFloatOrDefault("UDT_PURITY", settings.PurityThreshold, &envErr)
	settings.MaxDepth = getIntOrDefault("UDT_MAX_DEPTH", settings.MaxDepth, &envErr)
	settings.Dispersion = getEnvOrDefault("UDT_DISPERSION", settings.Dispersion)
	settings.SplitSearch = getEnvOrDefault("UDT_SPLIT_SEARCH", settings.SplitSearch)
	settings.ThreadsNum = getIntOrDefault("UDT_THREADS", settings.ThreadsNum, &envErr)
	settings.Folds = getIntOrDefault("UDT_FOLDS", settings.Folds, &envErr)
	settings.ErrorModel = getEnvOrDefault("UDT_ERROR_MODEL", settings.ErrorModel)
	settings.Samples = getIntOrDefault("UDT_SAMPLES", settings.Samples, &envErr)
	settings.Width = getFloatOrDefault("UDT_WIDTH", settings.Width, &envErr)
	settings.Seed = int64(getIntOrDefault("UDT_SEED", int(settings.Seed), &envErr))
	settings.LogLevel = getEnvOrDefault("UDT_LOG_LEVEL", settings.LogLevel)
	settings.StorePath = getEnvOrDefault("UDT_STORE_PATH", settings.StorePath)
	if envErr != nil {
		return Settings{}, fmt.Errorf("bad environment override: %w", envErr)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

//Validate checks ranges and names.
func (s Settings) Validate() error {
	if s.MinNodeWeight < 0 {
		return fmt.Errorf("min node weight must not be negative, got %g", s.MinNodeWeight)
	}
	if s.PurityThreshold <= 0 || s.PurityThreshold > 1 {
		return fmt.Errorf("purity must be in (0, 1], got %g", s.PurityThreshold)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", s.MaxDepth)
	}
	if _, err := udtl.LookupDispersion(s.Dispersion); err != nil {
		return err
	}
	if search := strings.ToLower(s.SplitSearch); search != "udt" && search != "avg" {
		return fmt.Errorf("split search must be udt or avg, got %q", s.SplitSearch)
	}
	if s.ThreadsNum < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", s.ThreadsNum)
	}
	if s.Folds < 2 {
		return fmt.Errorf("folds must be at least 2, got %d", s.Folds)
	}
	if model := strings.ToLower(s.ErrorModel); model != "gaussian" && model != "uniform" {
		return fmt.Errorf("error model must be gaussian or uniform, got %q", s.ErrorModel)
	}
	if s.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", s.Samples)
	}
	if s.Width < 0 {
		return fmt.Errorf("width must not be negative, got %g", s.Width)
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	return nil
}

//TreeParams creates tree induction parameters.
func (s Settings) TreeParams() (udtl.TreeParams, error) {
	search, err := udtl.NewSplitSearch(s.SplitSearch, s.Dispersion, s.ThreadsNum)
	if err != nil {
		return udtl.TreeParams{}, err
	}
	return udtl.TreeParams{
		MinNodeWeight:   s.MinNodeWeight,
		PurityThreshold: s.PurityThreshold,
		MaxDepth:        s.MaxDepth,
		Search:          search,
	}, nil
}

//Level returns the zerolog level. Settings are expected to be validated.
func (s Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

//getIntOrDefault keeps the first parse failure in errp and returns the default for it.
func getIntOrDefault(key string, defaultValue int, errp *error) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if *errp == nil {
			*errp = fmt.Errorf("%s=%q: %w", key, v, err)
		}
		return defaultValue
	}
	return i
}

func getFloatOrDefault(key string, defaultValue float64, errp *error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if *errp == nil {
			*errp = fmt.Errorf("%s=%q: %w", key, v, err)
		}
		return defaultValue
	}
	return f
}
