package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/pathres"
)

type Config struct {
	LogLevel  string `yaml:"log_level" env:"SERVIFY_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" env:"SERVIFY_LOG_FORMAT" env-default:"text" validate:"oneof=text json"`

	// OTLPEndpoint enables trace export when set, e.g. "localhost:4318".
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"SERVIFY_OTLP_ENDPOINT"`
	OTLPInsecure bool   `yaml:"otlp_insecure" env:"SERVIFY_OTLP_INSECURE" env-default:"true"`

	Naming NamingConfig `yaml:"naming"`
	Paths  PathConfig   `yaml:"paths"`
}

type NamingConfig struct {
	ReservedPrefix    string `yaml:"reserved_prefix" env:"SERVIFY_RESERVED_PREFIX" env-default:"__"`
	RequestSuffix     string `yaml:"request_suffix" env:"SERVIFY_REQUEST_SUFFIX" env-default:"_request"`
	ResponseSuffix    string `yaml:"response_suffix" env:"SERVIFY_RESPONSE_SUFFIX" env-default:"_response"`
	InternalPrefix    string `yaml:"internal_prefix" env:"SERVIFY_INTERNAL_PREFIX" env-default:"__internal_"`
	FileSuffix        string `yaml:"file_suffix" env:"SERVIFY_FILE_SUFFIX" env-default:"_servify.go" validate:"endswith=.go"`
	ConstructorPrefix string `yaml:"constructor_prefix" env:"SERVIFY_CONSTRUCTOR_PREFIX" env-default:"New"`
}

type PathConfig struct {
	ParentSegment string `yaml:"parent_segment" env:"SERVIFY_PARENT_SEGMENT" env-default:"super" validate:"required,alphanum"`
}

// Load reads the configuration from path, when given, and then from the
// environment. Environment variables win over the file.
func Load(path string) (*Config, error) {
	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.NamingPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.PathPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return &cfg, nil
}

// NamingPolicy overlays the configured naming on the default policy.
func (c *Config) NamingPolicy() names.Policy {
	p := names.DefaultPolicy()
	p.ReservedPrefix = c.Naming.ReservedPrefix
	p.RequestSuffix = c.Naming.RequestSuffix
	p.ResponseSuffix = c.Naming.ResponseSuffix
	p.InternalPrefix = c.Naming.InternalPrefix
	p.FileSuffix = c.Naming.FileSuffix
	p.ConstructorPrefix = c.Naming.ConstructorPrefix
	return p
}

func (c *Config) PathPolicy() pathres.Policy {
	return pathres.Policy{ParentSegment: c.Paths.ParentSegment}
}
