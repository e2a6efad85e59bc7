package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// LogFile implements a file based logger split by level group.
// All files share the same lumberjack rotation limits.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog string `toml:"access"`
	ErrorLog  string `toml:"error"`
	InfoLog   string `toml:"info"`
	WarnLog   string `toml:"warn"`

	MaxSize    int `toml:"maxSize"`
	MaxBackups int `toml:"maxBackups"`
	MaxAge     int `toml:"maxAge"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.

	// EnableAccessLogToConsole if true the webservice will log requests to console.
	// Does not overrule flag Console.Enabled!
	// If Console.Enabled is false, still no access log output to the console will be shown.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File based logging for non docker envs.
	File LogFile `toml:"file"`
}
