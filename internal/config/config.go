package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "config.json"
	DefaultHost     = "localhost"
	DefaultPort     = 3000
)

var (
	ErrReadConfig  = errors.New("failed to read config file")
	ErrParseConfig = errors.New("failed to parse config file")

	errMissingNameGenerator = errors.New("nameGenerator section is required")
)

type Config struct {
	NameGenerator NameGeneratorConfig `json:"nameGenerator" yaml:"nameGenerator"`
	API           APIConfig           `json:"api" yaml:"api"`
}

type NameGeneratorConfig struct {
	AIProvider  string   `json:"aiProvider" yaml:"aiProvider"`
	GroqAPIKey  string   `json:"groqApiKey" yaml:"groqApiKey"`
	GroqModel   string   `json:"groqModel,omitempty" yaml:"groqModel,omitempty"`
	GroqBaseURL string   `json:"groqBaseUrl,omitempty" yaml:"groqBaseUrl,omitempty"`
	TimeoutMS   int      `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	Adjectives  []string `json:"adjectives" yaml:"adjectives"`
	Nouns       []string `json:"nouns" yaml:"nouns"`
}

type APIConfig struct {
	Port int    `json:"port" yaml:"port"`
	Host string `json:"host" yaml:"host"`
}

func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envOverrides holds the variables that take precedence over the file.
type envOverrides struct {
	GroqAPIKey string `env:"GROQ_API_KEY"`
	APIHost    string `env:"API_HOST"`
}

// DefaultPath prefers a config.json sitting next to the executable and falls
// back to the working directory.
func DefaultPath() string {
	exe, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(exe), DefaultFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
	}
	return DefaultFileName
}

func Load(path string) (Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment; a nil map reads the
// process environment.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}

	cfg, err := parse(path, content)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrParseConfig, path, err)
	}
	log.Printf("configuration loaded from %s", path)

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	var overrides envOverrides
	if err := env.ParseWithOptions(&overrides, opts); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	cfg.applyDefaults()
	cfg.applyOverrides(overrides)
	return cfg, nil
}

// fileConfig mirrors Config with the nameGenerator section as a pointer so an
// absent or null section can be told apart from an empty one.
type fileConfig struct {
	NameGenerator *NameGeneratorConfig `json:"nameGenerator" yaml:"nameGenerator"`
	API           APIConfig            `json:"api" yaml:"api"`
}

func parse(path string, content []byte) (Config, error) {
	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(content, &raw); err != nil {
			return Config{}, err
		}
	}
	if raw.NameGenerator == nil {
		return Config{}, errMissingNameGenerator
	}
	return Config{NameGenerator: *raw.NameGenerator, API: raw.API}, nil
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = DefaultPort
	}
	if c.API.Host == "" {
		c.API.Host = DefaultHost
	}
}

func (c *Config) applyOverrides(o envOverrides) {
	if o.GroqAPIKey != "" {
		c.NameGenerator.GroqAPIKey = o.GroqAPIKey
		log.Printf("using groq api key from environment variable (%d characters)", len(c.NameGenerator.GroqAPIKey))
	} else {
		log.Printf("no GROQ_API_KEY environment variable found")
		if c.NameGenerator.GroqAPIKey != "" {
			log.Printf("using groq api key from config file (%d characters)", len(c.NameGenerator.GroqAPIKey))
		} else {
			log.Printf("no groq api key configured, names will be generated locally")
		}
	}

	if o.APIHost != "" {
		c.API.Host = o.APIHost
	}
}
