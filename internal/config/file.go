package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the top-level vanta.yaml configuration for a module tree.
type ProjectConfig struct {
	// ModelChecker configures internal/mcbridge's gRPC target.
	ModelChecker ModelCheckerConfig `yaml:"model_checker,omitempty"`

	// REPL configures internal/repl's persistence.
	REPL REPLConfig `yaml:"repl,omitempty"`

	// SignatureFiles lists extra .vnt files for operators shared across a
	// project. The list is only parsed from vanta.yaml; nothing in this
	// repository loads these files into a signature table.
	SignatureFiles []string `yaml:"signature_files,omitempty"`
}

// ModelCheckerConfig points at an external model-checker service.
type ModelCheckerConfig struct {
	// Target is a gRPC dial target, e.g. "localhost:7443".
	Target string `yaml:"target,omitempty"`

	// ProtoFile is a .proto file describing the checker's service, loaded
	// with protoreflect when no generated stub is compiled in.
	ProtoFile string `yaml:"proto_file,omitempty"`

	// Service names the method to invoke as "<fully-qualified service>/<method>",
	// e.g. "checker.Checker/Report".
	Service string `yaml:"service,omitempty"`
}

// REPLConfig configures the interactive REPL.
type REPLConfig struct {
	// HistoryPath, when set, backs REPL history with a sqlite database.
	HistoryPath string `yaml:"history_path,omitempty"`
}

// LoadProjectConfig reads and parses a vanta.yaml file. A missing file is
// not an error; it returns the zero-value ProjectConfig.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
