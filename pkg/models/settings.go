package models

import "time"

// Settings represents the application configuration
type Settings struct {
	Proof   ProofSettings   `yaml:"proof" mapstructure:"proof"`
	Oracle  OracleSettings  `yaml:"oracle" mapstructure:"oracle"`
	Editor  EditorSettings  `yaml:"editor" mapstructure:"editor"`
	Storage StorageSettings `yaml:"storage" mapstructure:"storage"`
	Log     LogSettings     `yaml:"log" mapstructure:"log"`
}

// ProofSettings controls how proofs are checked
type ProofSettings struct {
	// AllowedVariables is the comma separated list of variable names;
	// everything else is a constant
	AllowedVariables string `yaml:"allowed_variables" mapstructure:"allowed_variables"`
}

// OracleSettings locates the external proof checker
type OracleSettings struct {
	Command               string        `yaml:"command" mapstructure:"command"`
	FormatCommand         string        `yaml:"format_command" mapstructure:"format_command"`
	FixLineNumbersCommand string        `yaml:"fix_line_numbers_command" mapstructure:"fix_line_numbers_command"`
	LatexCommand          string        `yaml:"latex_command" mapstructure:"latex_command"`
	Timeout               time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// EditorSettings controls editor preferences
type EditorSettings struct {
	SubstituteSymbols bool `yaml:"substitute_symbols" mapstructure:"substitute_symbols"`
	ShowRoles         bool `yaml:"show_roles" mapstructure:"show_roles"`
}

// StorageSettings controls where the session is kept
type StorageSettings struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // empty: user config dir
}

// LogSettings controls the log file
type LogSettings struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	// Journal also sends records to the systemd journal when it is reachable
	Journal bool `yaml:"journal" mapstructure:"journal"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Proof: ProofSettings{
			AllowedVariables: "x,y,z,u,v,w",
		},
		Oracle: OracleSettings{
			Command: "fitch-proof",
			Timeout: 5 * time.Second,
		},
		Editor: EditorSettings{
			SubstituteSymbols: true,
			ShowRoles:         true,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}
