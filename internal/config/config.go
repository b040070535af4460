package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/modreg/internal/branding"
	"github.com/agentx-labs/modreg/internal/descriptor"
	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// RegistryFileName is the default registry file inside the project's
	// dot-directory.
	RegistryFileName = "registry.json"
)

// Config keys.
const (
	KeyProjectRoot     = "project_root"
	KeyRegistryFile    = "registry_file"
	KeyCategories      = "categories"
	KeyIgnore          = "ignore"
	KeyDescriptorFiles = "descriptor_files"
	KeyLogLevel        = "log_level"
)

var configFileOverride string

// Settings is the resolved configuration for one project.
type Settings struct {
	ProjectRoot     string                       // absolute
	RegistryFile    string                       // absolute
	Dirs            map[registry.Category]string // category -> directory relative to ProjectRoot
	Ignore          []string
	DescriptorFiles []string
	LogLevel        string
}

// Dir returns the path to the user config directory (~/.modreg/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file in use: the --config override if set,
// otherwise ~/.modreg/config.yaml.
func FilePath() string {
	if configFileOverride != "" {
		return configFileOverride
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// SetConfigFileOverride points Load and Set at an explicit config file.
func SetConfigFileOverride(path string) {
	configFileOverride = path
}

// EnsureDir creates the directory holding the config file if it does not exist.
func EnsureDir() error {
	dir := filepath.Dir(FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyProjectRoot, ".")
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only the
// file's existing contents and the new key are written; flag, env and default
// values held by the global Viper stay out of the file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// Resolve turns the loaded Viper state into Settings. Relative paths are
// resolved against the working directory (project root) or the project root
// (registry file). Category overrides must name a known category.
func Resolve() (*Settings, error) {
	root, err := filepath.Abs(viper.GetString(KeyProjectRoot))
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	regFile := viper.GetString(KeyRegistryFile)
	switch {
	case regFile == "":
		regFile = filepath.Join(root, branding.HomeDir(), RegistryFileName)
	case !filepath.IsAbs(regFile):
		regFile = filepath.Join(root, regFile)
	}

	dirs := make(map[registry.Category]string, len(registry.DefaultDirs))
	for c, d := range registry.DefaultDirs {
		dirs[c] = d
	}
	for key, dir := range viper.GetStringMapString(KeyCategories) {
		c, ok := registry.ParseCategory(strings.ToLower(key))
		if !ok {
			return nil, fmt.Errorf("config %s.%s: unknown category (valid: %s)",
				KeyCategories, key, strings.Join(registry.CategoryNames(), ", "))
		}
		dirs[c] = filepath.ToSlash(dir)
	}

	s := &Settings{
		ProjectRoot:     root,
		RegistryFile:    regFile,
		Dirs:            dirs,
		Ignore:          registry.DefaultIgnore,
		DescriptorFiles: descriptor.DefaultFileNames,
		LogLevel:        viper.GetString(KeyLogLevel),
	}
	if viper.IsSet(KeyIgnore) {
		s.Ignore = viper.GetStringSlice(KeyIgnore)
	}
	if viper.IsSet(KeyDescriptorFiles) {
		s.DescriptorFiles = viper.GetStringSlice(KeyDescriptorFiles)
	}
	return s, nil
}
