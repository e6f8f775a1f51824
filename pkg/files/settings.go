package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fitchpad/fitchpad-cli/pkg/models"
)

// EnvPrefix prefixes environment overrides, e.g. FITCHPAD_ORACLE_COMMAND
const EnvPrefix = "FITCHPAD"

// DefaultSettingsPath returns <user config dir>/fitchpad/settings.yaml
func DefaultSettingsPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFile), nil
}

// LoadSettings reads settings from path, falling back to defaults for
// everything the file does not set. A missing file is not an error.
// Environment variables override the file.
func LoadSettings(path string) (*models.Settings, error) {
	if path == "" {
		defaultPath, err := DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	defaults := models.DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("proof.allowed_variables", defaults.Proof.AllowedVariables)
	v.SetDefault("oracle.command", defaults.Oracle.Command)
	v.SetDefault("oracle.format_command", defaults.Oracle.FormatCommand)
	v.SetDefault("oracle.fix_line_numbers_command", defaults.Oracle.FixLineNumbersCommand)
	v.SetDefault("oracle.latex_command", defaults.Oracle.LatexCommand)
	v.SetDefault("oracle.timeout", defaults.Oracle.Timeout)
	v.SetDefault("editor.substitute_symbols", defaults.Editor.SubstituteSymbols)
	v.SetDefault("editor.show_roles", defaults.Editor.ShowRoles)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.journal", defaults.Log.Journal)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	var settings models.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := ValidateSettings(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ValidateSettings rejects values the application cannot run with
func ValidateSettings(s *models.Settings) error {
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be: debug, info, warn, or error)", s.Log.Level)
	}
	if s.Oracle.Timeout < 0 {
		return fmt.Errorf("invalid oracle timeout: %s", s.Oracle.Timeout)
	}
	return nil
}

// WriteSettings writes settings as YAML, creating the directory
func WriteSettings(path string, settings *models.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for settings: %w", err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// StateDir resolves the directory holding the session store
func StateDir(settings *models.Settings) (string, error) {
	if settings.Storage.Dir != "" {
		return settings.Storage.Dir, nil
	}
	return DefaultDir()
}
