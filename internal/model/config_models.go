package model

// Config holds the application settings.
type Config struct {
	DatabaseType  string `json:"database_type" yaml:"database_type"`
	DatabaseDir   string `json:"database_dir" yaml:"database_dir"`
	DatabaseFile  string `json:"database_file" yaml:"database_file"`
	DatabaseDSN   string `json:"database_dsn,omitempty" yaml:"database_dsn,omitempty"`
	MaxOpenConns  int    `json:"max_open_conns" yaml:"max_open_conns"`
	QueryStrategy string `json:"query_strategy" yaml:"query_strategy"`
	LogFolder     string `json:"log_folder" yaml:"log_folder"`
	InfoLog       string `json:"info_log" yaml:"info_log"`
	ErrorLog      string `json:"error_log" yaml:"error_log"`
	CommandLog    string `json:"command_log" yaml:"command_log"`
	HistoryFile   string `json:"history_file" yaml:"history_file"`
	Color         bool   `json:"color" yaml:"color"`
}
