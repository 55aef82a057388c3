// Package project loads the project.yml file describing a project.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrProjectFileNotFound = errors.New("project file not found")
	ErrMissingName         = errors.New("required value `name` not found")
	ErrInvalidProjectName  = errors.New("project name can contain only letters, digits, '_' and '-'")
	ErrMissingMain         = errors.New("required value `main` not found")
	ErrMissingToolchain    = errors.New("required value `ctoolchain` not found")
	ErrInvalidToolchain    = errors.New("invalid C toolchain, supported options are gcc and clang")
	ErrInvalidGC           = errors.New("unsupported garbage collector")
)

// FileNames lists the accepted project file names, in lookup order.
var FileNames = []string{"project.yml", "project.yaml"}

// Default configuration values.
const (
	DefaultBuildDir = "build"
	DefaultGC       = GCGJDuck
	SourceDir       = "src"
	envPrefix       = "MAAT"
)

// Toolchain identifies the native C toolchain.
type Toolchain string

// Supported toolchains.
const (
	ToolchainGCC   Toolchain = "gcc"
	ToolchainClang Toolchain = "clang"
)

// Command returns the compiler driver of the toolchain.
func (t Toolchain) Command() string {
	return string(t)
}

// Flags returns the C flags used when compiling generated sources.
func (t Toolchain) Flags() string {
	switch t {
	case ToolchainClang:
		return "-fcolor-diagnostics -std=c89 -Wno-return-type"
	default:
		return "-std=c89 -Wno-return-type"
	}
}

// ParseToolchain validates a toolchain name.
func ParseToolchain(name string) (Toolchain, error) {
	switch t := Toolchain(strings.ToLower(strings.TrimSpace(name))); t {
	case ToolchainGCC, ToolchainClang:
		return t, nil
	case "":
		return "", ErrMissingToolchain
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidToolchain, name)
	}
}

// GCGJDuck is the only supported garbage collector.
const GCGJDuck = "gjduck"

// Config is the immutable project record.
type Config struct {
	Name      string    `mapstructure:"name"`
	Main      string    `mapstructure:"main"`
	Toolchain Toolchain `mapstructure:"ctoolchain"`
	GC        string    `mapstructure:"gc"`
	BuildDir  string    `mapstructure:"builddir"`

	// Dir is the project root the file was loaded from.
	Dir string
}

// EntryFile returns the path of the program's root source file.
func (c *Config) EntryFile() string {
	return filepath.Join(c.Dir, SourceDir, c.Main)
}

// Executable returns the linked program name for the target OS.
func (c *Config) Executable(goos string) string {
	if goos == "windows" {
		return c.Name + ".exe"
	}
	return c.Name
}

// CompilerPath returns the language compiler path relative to the project root.
func CompilerPath(goos string) string {
	if goos == "windows" {
		return filepath.Join("dist", "bin", "Functional.exe")
	}
	return filepath.Join("dist", "bin", "Functional")
}

// FindFile returns the project file inside dir.
func FindFile(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("project folder %s does not exist", dir)
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrProjectFileNotFound, dir)
}

// Load reads and validates the project file in dir.
// Values can be overridden with MAAT_* environment variables.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	path, err := FindFile(absDir)
	if err != nil {
		return nil, err
	}

	viperCfg := viper.New()
	setDefaults(viperCfg)

	viperCfg.SetConfigFile(path)
	viperCfg.SetConfigType("yaml")
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viperCfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var config Config
	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	config.Dir = absDir

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("gc", DefaultGC)
	viperCfg.SetDefault("builddir", DefaultBuildDir)
	// Registered so AutomaticEnv can override keys absent from the file.
	viperCfg.SetDefault("name", "")
	viperCfg.SetDefault("main", "")
	viperCfg.SetDefault("ctoolchain", "")
}

// ValidateName checks that a project name is usable as an executable and directory name.
func ValidateName(name string) error {
	if name == "" {
		return ErrMissingName
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
		}
	}
	return nil
}

func validateConfig(config *Config) error {
	if err := ValidateName(config.Name); err != nil {
		return err
	}

	if config.Main == "" {
		return ErrMissingMain
	}

	toolchain, err := ParseToolchain(string(config.Toolchain))
	if err != nil {
		return err
	}
	config.Toolchain = toolchain

	if config.GC != GCGJDuck {
		return fmt.Errorf("%w: %q", ErrInvalidGC, config.GC)
	}

	if config.BuildDir == "" {
		config.BuildDir = DefaultBuildDir
	}

	return nil
}
