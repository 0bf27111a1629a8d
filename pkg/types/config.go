package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docparse/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries of rate-limited (HTTP 429) requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// MaxBytes caps the size of a fetched document body.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// ConversionBackend identifies the document conversion tool.
type ConversionBackend string

const (
	// BackendNative converts HTML, PDF, and markdown in-process.
	BackendNative ConversionBackend = "native"
	// BackendMarkitdown pipes documents through the markitdown container.
	BackendMarkitdown ConversionBackend = "markitdown"
)

// ConversionConfig holds settings for the conversion gateway.
type ConversionConfig struct {
	// Backend selects the conversion tool: native or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Image is the container image used by the markitdown backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Runtime is the container runtime for the markitdown backend:
	// docker, podman, or auto.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime"`
}

// StoreBackend identifies where the collection is persisted.
type StoreBackend string

const (
	StoreJSON   StoreBackend = "json"
	StoreSQLite StoreBackend = "sqlite"
)

// StoreConfig holds settings for collection persistence.
type StoreConfig struct {
	// Backend selects json (flat file) or sqlite.
	Backend StoreBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the JSON file or SQLite database path.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ExportFormat selects the export file format.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportYAML     ExportFormat = "yaml"
	ExportJSON     ExportFormat = "json"
	ExportPDF      ExportFormat = "pdf"
)

// ExportConfig holds settings for collection exports.
type ExportConfig struct {
	// Dir is the directory default-named exports are written to.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Format is the default export format.
	Format ExportFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode is the gin mode: debug, release, or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// AllowFiles lets HTTP clients add papers from local file paths.
	AllowFiles bool `json:"allow_files" yaml:"allow_files" mapstructure:"allow_files"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all configuration sections.
type AppConfig struct {
	Server  ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Store   StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Fetch   HTTPConfig       `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Convert ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Export  ExportConfig     `json:"export" yaml:"export" mapstructure:"export"`
	Log     LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
