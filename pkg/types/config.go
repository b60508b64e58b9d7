package types

// ConvertConfig holds settings for a conversion run. Values come from
// flags, the config file, or PPD_MAC2LINUX_* environment variables.
type ConvertConfig struct {
	// ReportPath, when set, receives a YAML description of the run.
	ReportPath string `json:"report" yaml:"report" mapstructure:"report"`

	// HistoryDB, when set, is the SQLite database that records each run.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db"`

	// ExtraMacAttributes extends the built-in list of macOS-only attribute
	// keywords. Lines containing any of them are removed.
	ExtraMacAttributes []string `json:"extra_mac_attributes" yaml:"extra_mac_attributes" mapstructure:"extra_mac_attributes"`
}
