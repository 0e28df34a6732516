package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// Built-in defaults. They match the layout of a project directory that
// contains docker-compose.yml, .env and a dumps/ folder.
const (
	DefaultSettingsFile  = ".dbdock.json"
	DefaultEnvFile       = ".env"
	DefaultComposeFile   = "docker-compose.yml"
	DefaultService       = "mysql"
	DefaultDumpsDir      = "dumps"
	DefaultOrchestrator  = "docker compose"
	DefaultRuntimeBinary = "docker"
	DefaultUser          = "root"

	// RootPasswordKey is the secrets key holding the MySQL root password.
	RootPasswordKey = "MYSQL_ROOT_PASSWORD"

	// dumpExtension is appended to every dump name.
	dumpExtension = ".sql"
)

// Settings holds the tunable, non-secret options. Every field is a string so
// that an empty value means "not set" when layers are merged.
type Settings struct {
	// EnvFile is the path of the secrets file.
	EnvFile string `json:"envFile,omitempty"`

	// ComposeFile is the path of the Compose descriptor.
	ComposeFile string `json:"composeFile,omitempty"`

	// Service is the Compose service running MySQL.
	Service string `json:"service,omitempty"`

	// DumpsDir is the directory mysql:import reads from and mysql:dump
	// writes to.
	DumpsDir string `json:"dumpsDir,omitempty"`

	// Orchestrator is the Compose command line, either "docker compose"
	// (plugin) or "docker-compose" (standalone binary).
	Orchestrator string `json:"orchestrator,omitempty"`

	// RuntimeBinary is the container runtime CLI that must be on PATH.
	RuntimeBinary string `json:"runtime,omitempty"`

	// ProjectName overrides the Compose project name. When empty it is
	// derived from the descriptor.
	ProjectName string `json:"projectName,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		EnvFile:       DefaultEnvFile,
		ComposeFile:   DefaultComposeFile,
		Service:       DefaultService,
		DumpsDir:      DefaultDumpsDir,
		Orchestrator:  DefaultOrchestrator,
		RuntimeBinary: DefaultRuntimeBinary,
	}
}

// Merge returns s with every non-empty field of over applied on top.
func (s Settings) Merge(over Settings) Settings {
	if over.EnvFile != "" {
		s.EnvFile = over.EnvFile
	}
	if over.ComposeFile != "" {
		s.ComposeFile = over.ComposeFile
	}
	if over.Service != "" {
		s.Service = over.Service
	}
	if over.DumpsDir != "" {
		s.DumpsDir = over.DumpsDir
	}
	if over.Orchestrator != "" {
		s.Orchestrator = over.Orchestrator
	}
	if over.RuntimeBinary != "" {
		s.RuntimeBinary = over.RuntimeBinary
	}
	if over.ProjectName != "" {
		s.ProjectName = over.ProjectName
	}
	return s
}

// LoadSettings reads a JSONC settings file. A missing file is not an error
// unless required is true; the zero Settings is returned instead so that
// Merge leaves the defaults untouched.
func LoadSettings(path string, required bool) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Settings{}, nil
		}
		return Settings{}, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to read settings file %s", path), err)
	}

	// Strip comments and trailing commas before handing the bytes to
	// encoding/json.
	var s Settings
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
		return Settings{}, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to parse settings file %s", path), err)
	}
	return s, nil
}

// Config is the immutable configuration passed to every operation. It is
// built once by Load and never mutated afterwards.
type Config struct {
	settings Settings
	secrets  map[string]string
}

// Load reads the secrets file named by s.EnvFile and validates that the
// root credential is present.
//
// Failure kinds:
//   - KindMissingConfigFile when the secrets file does not exist
//   - KindMissingRequiredCredential when RootPasswordKey is absent or empty
func Load(s Settings) (*Config, error) {
	secrets, err := LoadSecrets(s.EnvFile)
	if err != nil {
		return nil, err
	}

	if secrets[RootPasswordKey] == "" {
		return nil, model.NewCLIError(model.KindMissingRequiredCredential,
			fmt.Sprintf("%s is not defined in %s", RootPasswordKey, s.EnvFile))
	}

	return &Config{settings: s, secrets: secrets}, nil
}

// LoadSecrets parses a dotenv-style secrets file into a key/value map.
func LoadSecrets(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(model.KindMissingConfigFile,
				fmt.Sprintf("secrets file not found: %s", path), err)
		}
		return nil, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to open secrets file %s", path), err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to parse secrets file %s", path), err)
	}

	secrets := make(map[string]string, len(env))
	for k, v := range env {
		secrets[k] = v
	}
	return secrets, nil
}

// Settings returns a copy of the merged settings.
func (c *Config) Settings() Settings {
	return c.settings
}

// Secret returns the value of a secrets key and whether it was defined.
func (c *Config) Secret(key string) (string, bool) {
	v, ok := c.secrets[key]
	return v, ok
}

// Secrets returns a copy of every key/value pair in the secrets file.
func (c *Config) Secrets() map[string]string {
	out := make(map[string]string, len(c.secrets))
	for k, v := range c.secrets {
		out[k] = v
	}
	return out
}

// RootPassword returns the MySQL root password.
func (c *Config) RootPassword() string {
	return c.secrets[RootPasswordKey]
}

// User returns the MySQL account the in-container client connects as.
func (c *Config) User() string {
	return DefaultUser
}

// Service returns the Compose service running MySQL.
func (c *Config) Service() string {
	return c.settings.Service
}

// ComposeFile returns the Compose descriptor path.
func (c *Config) ComposeFile() string {
	return c.settings.ComposeFile
}

// ProjectName returns the configured project name override, which may be
// empty.
func (c *Config) ProjectName() string {
	return c.settings.ProjectName
}

// Orchestrator splits the orchestrator command line into the executable
// and its leading arguments, e.g. "docker compose" → ("docker", ["compose"]).
func (c *Config) Orchestrator() (string, []string) {
	fields := strings.Fields(c.settings.Orchestrator)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultOrchestrator)
	}
	return fields[0], fields[1:]
}

// RuntimeBinary returns the container runtime executable name.
func (c *Config) RuntimeBinary() string {
	if c.settings.RuntimeBinary == "" {
		return DefaultRuntimeBinary
	}
	return c.settings.RuntimeBinary
}

// DumpPath returns the path of the dump file for name, i.e.
// <dumpsDir>/<name>.sql. The name must be a plain file name.
func (c *Config) DumpPath(name string) (string, error) {
	if err := ValidateDumpName(name); err != nil {
		return "", err
	}
	return filepath.Join(c.settings.DumpsDir, name+dumpExtension), nil
}

// ValidateDumpName rejects names that are empty or would escape the dumps
// directory.
func ValidateDumpName(name string) error {
	if name == "" || name == "." || name == ".." {
		return model.NewCLIError(model.KindInvalidArgument,
			fmt.Sprintf("invalid dump name %q", name))
	}
	if strings.ContainsAny(name, `/\`) {
		return model.NewCLIError(model.KindInvalidArgument,
			fmt.Sprintf("invalid dump name %q: must not contain path separators", name))
	}
	return nil
}
