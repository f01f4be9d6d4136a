package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/genetix/pkg/strategy"
)

// EnvPrefix prefixes the environment variables LoadConfig reads.
const EnvPrefix = "GENETIX_"

// Config holds all parameters for an evolutionary run. It is immutable once
// the engine is built.
type Config struct {
	Model string `json:"model" yaml:"model" toml:"model" validate:"required"`
	Pool  string `json:"pool" yaml:"pool" toml:"pool" validate:"required"`

	GenerationSize  int `json:"generation_size" yaml:"generation_size" toml:"generation_size" validate:"gt=0"`
	GenerationLimit int `json:"generation_limit" yaml:"generation_limit" toml:"generation_limit" validate:"gt=0"`

	MutationProbability     float64 `json:"mutation_probability" yaml:"mutation_probability" toml:"mutation_probability" validate:"gte=0,lte=1"`
	CrossingProbability     float64 `json:"crossing_probability" yaml:"crossing_probability" toml:"crossing_probability" validate:"gte=0,lte=1"`
	ReproductionProbability float64 `json:"reproduction_probability" yaml:"reproduction_probability" toml:"reproduction_probability" validate:"gte=0,lte=1"`
	SelectionProbability    float64 `json:"selection_probability" yaml:"selection_probability" toml:"selection_probability" validate:"gte=0,lte=1"`

	MinFunctionLength int `json:"min_function_length" yaml:"min_function_length" toml:"min_function_length" validate:"gte=1"`
	MaxFunctionLength int `json:"max_function_length" yaml:"max_function_length" toml:"max_function_length" validate:"gtefield=MinFunctionLength"`

	ArbitraryMutations bool `json:"arbitrary_mutations" yaml:"arbitrary_mutations" toml:"arbitrary_mutations"`
	ArbitraryCrossings bool `json:"arbitrary_crossings" yaml:"arbitrary_crossings" toml:"arbitrary_crossings"`

	// Epsilon ends the run early once the best fitness is at or below it.
	Epsilon float64 `json:"epsilon" yaml:"epsilon" toml:"epsilon" validate:"gte=0"`
	// Seed 0 picks a seed from the clock; the seed used is reported.
	Seed uint64 `json:"seed" yaml:"seed" toml:"seed"`
	// Workers evaluating fitness in parallel; 0 means one per CPU.
	Workers          int           `json:"workers" yaml:"workers" toml:"workers" validate:"gte=0"`
	CacheSize        int           `json:"cache_size" yaml:"cache_size" toml:"cache_size" validate:"gte=0"`
	ProgressInterval time.Duration `json:"progress_interval" yaml:"progress_interval" toml:"progress_interval" validate:"gte=0"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:                   "ga",
		Pool:                    "basic",
		GenerationSize:          200,
		GenerationLimit:         500,
		MutationProbability:     0.05,
		CrossingProbability:     0.85,
		ReproductionProbability: 0.05,
		SelectionProbability:    0.05,
		MinFunctionLength:       1,
		MaxFunctionLength:       30,
		ArbitraryMutations:      true,
		ArbitraryCrossings:      true,
		Epsilon:                 1e-9,
		Seed:                    0, // 0 = random
		Workers:                 runtime.NumCPU(),
		CacheSize:               4096,
		ProgressInterval:        500 * time.Millisecond,
	}
}

var validate = validator.New()

// Validate checks field ranges. Errors wrap ErrInvalidConfiguration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// Params returns the operator settings for the strategy.
func (c Config) Params() strategy.Params {
	return strategy.Params{
		Mutation:           c.MutationProbability,
		Crossing:           c.CrossingProbability,
		Reproduction:       c.ReproductionProbability,
		Selection:          c.SelectionProbability,
		MinLength:          c.MinFunctionLength,
		MaxLength:          c.MaxFunctionLength,
		ArbitraryMutations: c.ArbitraryMutations,
		ArbitraryCrossings: c.ArbitraryCrossings,
	}
}

// LoadConfig starts from DefaultConfig, overlays the file at path (YAML,
// TOML or JSON by extension; an empty path skips this step), applies
// GENETIX_* environment variables and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfiguration, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalidConfiguration, path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from variables named EnvPrefix plus the upper-case
// yaml key, e.g. GENETIX_GENERATION_SIZE. lookup is usually os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, f := range envFields(cfg) {
		name := EnvPrefix + strings.ToUpper(f.key)
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := f.set(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfiguration, name, v, err)
		}
	}
	return nil
}

type envField struct {
	key string
	set func(string) error
}

func envFields(c *Config) []envField {
	str := func(p *string) func(string) error {
		return func(v string) error { *p = v; return nil }
	}
	integer := func(p *int) func(string) error {
		return func(v string) (err error) { *p, err = strconv.Atoi(v); return }
	}
	float := func(p *float64) func(string) error {
		return func(v string) (err error) { *p, err = strconv.ParseFloat(v, 64); return }
	}
	boolean := func(p *bool) func(string) error {
		return func(v string) (err error) { *p, err = strconv.ParseBool(v); return }
	}
	return []envField{
		{"model", str(&c.Model)},
		{"pool", str(&c.Pool)},
		{"generation_size", integer(&c.GenerationSize)},
		{"generation_limit", integer(&c.GenerationLimit)},
		{"mutation_probability", float(&c.MutationProbability)},
		{"crossing_probability", float(&c.CrossingProbability)},
		{"reproduction_probability", float(&c.ReproductionProbability)},
		{"selection_probability", float(&c.SelectionProbability)},
		{"min_function_length", integer(&c.MinFunctionLength)},
		{"max_function_length", integer(&c.MaxFunctionLength)},
		{"arbitrary_mutations", boolean(&c.ArbitraryMutations)},
		{"arbitrary_crossings", boolean(&c.ArbitraryCrossings)},
		{"epsilon", float(&c.Epsilon)},
		{"seed", func(v string) (err error) { c.Seed, err = strconv.ParseUint(v, 10, 64); return }},
		{"workers", integer(&c.Workers)},
		{"cache_size", integer(&c.CacheSize)},
		{"progress_interval", func(v string) (err error) { c.ProgressInterval, err = time.ParseDuration(v); return }},
	}
}
