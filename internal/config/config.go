package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment is one configured execution environment carried into the IR.
type Environment struct {
	Name      string            `yaml:"name"`
	BaseURL   string            `yaml:"base_url"`
	Variables map[string]string `yaml:"variables"`
}

// Dataset is one configured test dataset carried into the IR.
type Dataset struct {
	Name   string                 `yaml:"name"`
	Values map[string]interface{} `yaml:"values"`
}

type Config struct {
	Project struct {
		Name           string `yaml:"name"`
		Root           string `yaml:"root"`
		SourceLanguage string `yaml:"source_language"`
	} `yaml:"project"`
	Sources struct {
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"sources"`
	Output struct {
		Path string `yaml:"path"`
	} `yaml:"output"`
	Snapshots struct {
		Path string `yaml:"path"`
	} `yaml:"snapshots"`
	Environments []Environment `yaml:"environments"`
	Data         []Dataset     `yaml:"data"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Load reads the configuration from path when the file exists and falls back
// to defaults otherwise. Environment overrides apply either way, so an
// unconfigured checkout still honors TESTMIG_* variables.
func Load(path string) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		cfg = Default()
		applyEnvOverrides(cfg)
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	if cfg.Project.SourceLanguage == "" {
		cfg.Project.SourceLanguage = "java"
	}
	if len(cfg.Sources.Include) == 0 {
		cfg.Sources.Include = []string{"**/*.java"}
	}
	if len(cfg.Sources.Exclude) == 0 {
		cfg.Sources.Exclude = []string{"**/target/**", "**/build/**", "**/node_modules/**"}
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "out/ir.json"
	}
	if cfg.Snapshots.Path == "" {
		cfg.Snapshots.Path = ".testmig/snapshots.db"
	}
}

// Override with environment variables if present.
func applyEnvOverrides(cfg *Config) {
	if name := os.Getenv("TESTMIG_PROJECT_NAME"); name != "" {
		cfg.Project.Name = name
	}
	if root := os.Getenv("TESTMIG_PROJECT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if out := os.Getenv("TESTMIG_OUTPUT_PATH"); out != "" {
		cfg.Output.Path = out
	}
	if snapshots := os.Getenv("TESTMIG_SNAPSHOTS_PATH"); snapshots != "" {
		cfg.Snapshots.Path = snapshots
	}
}
