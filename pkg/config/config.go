/*
Package config manages the TOML settings of dictautocomp: server limits, CLI
defaults, and the list of word lists with the files each one completes for.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/dictautocomp/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the settings file name inside the config dir
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server       ServerConfig       `toml:"server"`
	CLI          CliConfig          `toml:"cli"`
	Dictionaries []DictionaryConfig `toml:"dictionaries"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MaxPrefix int `toml:"max_prefix"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DictionaryConfig describes one word list and when to complete from it.
// Pattern, when set, is a regular expression matched against the active
// file name and takes precedence over Extensions.
type DictionaryConfig struct {
	File       string   `toml:"file"`
	Extensions []string `toml:"extensions"`
	Pattern    string   `toml:"pattern,omitempty"`
	IgnoreCase bool     `toml:"ignore_case"`
	MinLength  int      `toml:"min_length"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. platform user config dir
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.UserConfigDir(homeDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppDirName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/dictautocomp/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MaxPrefix: 60,
		},
		CLI: CliConfig{
			DefaultLimit:    24,
			DefaultMinLen:   1,
			DefaultMaxLen:   60,
			DefaultNoFilter: false,
		},
		Dictionaries: []DictionaryConfig{
			{
				File:       "words.txt",
				Extensions: []string{"txt", "md"},
				IgnoreCase: true,
				MinLength:  2,
			},
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	// a file that lists no dictionaries means none, not the default one
	config.Dictionaries = nil

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse recovers whatever sections of a broken TOML file still parse
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	config.Dictionaries = nil
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	if tables, ok := utils.ExtractTables(tempConfig, "dictionaries"); ok {
		config.Dictionaries = extractDictionaries(tables)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// extractDictionaries keeps every table that names a file
func extractDictionaries(tables []map[string]any) []DictionaryConfig {
	var dicts []DictionaryConfig
	for _, table := range tables {
		file, ok := utils.ExtractString(table, "file")
		if !ok || file == "" {
			log.Warnf("Skipping dictionary entry without a file: %v", table)
			continue
		}
		d := DictionaryConfig{File: file}
		if val, ok := utils.ExtractStringSlice(table, "extensions"); ok {
			d.Extensions = val
		}
		if val, ok := utils.ExtractString(table, "pattern"); ok {
			d.Pattern = val
		}
		if val, ok := utils.ExtractBool(table, "ignore_case"); ok {
			d.IgnoreCase = val
		}
		if val, ok := utils.ExtractInt64(table, "min_length"); ok {
			d.MinLength = val
		}
		dicts = append(dicts, d)
	}
	return dicts
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// ResolveFile returns the word list path of d, relative entries taken from configPath's dir
func ResolveFile(d DictionaryConfig, configPath string) string {
	if configPath == "" {
		return d.File
	}
	return utils.ResolveAgainst(filepath.Dir(configPath), d.File)
}

// AddDictionary adds d, replacing the entry for the same file in place
func (c *Config) AddDictionary(d DictionaryConfig) {
	for i := range c.Dictionaries {
		if c.Dictionaries[i].File == d.File {
			c.Dictionaries[i] = d
			return
		}
	}
	c.Dictionaries = append(c.Dictionaries, d)
}

// RemoveDictionary drops the entry for file and reports whether one existed.
// file may be given as written in the config or resolved against configPath.
func (c *Config) RemoveDictionary(file, configPath string) bool {
	for i, d := range c.Dictionaries {
		if d.File == file || ResolveFile(d, configPath) == file {
			c.Dictionaries = append(c.Dictionaries[:i], c.Dictionaries[i+1:]...)
			return true
		}
	}
	return false
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit, maxPrefix *int) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if maxPrefix != nil {
		c.Server.MaxPrefix = *maxPrefix
	}
	return SaveConfig(c, configPath)
}
