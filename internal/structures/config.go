package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type RemoteConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type PollerConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
}

type CredentialConfig struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
	Mode     uint32 `yaml:"mode"`
}

type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	FilePath   string `yaml:"filePath"`
	MaxEntries int    `yaml:"maxEntries"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	Remote     RemoteConfig     `yaml:"remote"`
	Poller     PollerConfig     `yaml:"poller"`
	Credential CredentialConfig `yaml:"credential"`
	History    HistoryConfig    `yaml:"history"`
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
