// Package config loads the settings file for the coverage tool.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is where the coverage tool looks for settings when no
// -config flag is given. A missing file at this path is not an error.
const DefaultConfigPath = "config/coverage.json"

// Settings holds tool settings. Every field is optional; the Get* accessors
// supply defaults for anything the file leaves out, so partial files are safe.
type Settings struct {
	// History store
	DBPath        *string `json:"db_path,omitempty"`
	RecordHistory *bool   `json:"record_history,omitempty"`

	// HTTP API. Setting listen_addr makes a run without scenario files serve
	// the API.
	ListenAddr *string `json:"listen_addr,omitempty"`

	// Plot export
	PlotDir      *string  `json:"plot_dir,omitempty"`
	PlotFormat   *string  `json:"plot_format,omitempty"` // png, svg or pdf
	PlotWidthCm  *float64 `json:"plot_width_cm,omitempty"`
	PlotHeightCm *float64 `json:"plot_height_cm,omitempty"`

	// Logging
	Verbose *bool `json:"verbose,omitempty"`
}

func ptrString(v string) *string    { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrFloat64(v float64) *float64 { return &v }

// DefaultSettings returns Settings with every field set to its default.
func DefaultSettings() *Settings {
	return &Settings{
		DBPath:        ptrString("coverage.db"),
		RecordHistory: ptrBool(false),
		ListenAddr:    ptrString(":8080"),
		PlotDir:       ptrString(""),
		PlotFormat:    ptrString("png"),
		PlotWidthCm:   ptrFloat64(16),
		PlotHeightCm:  ptrFloat64(12),
		Verbose:       ptrBool(false),
	}
}

// LoadSettings loads Settings from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Settings{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadSettingsOrDefault loads path when it exists. A missing file yields
// empty Settings, which resolve to defaults through the accessors.
func LoadSettingsOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Settings{}, nil
	}
	return LoadSettings(path)
}

// Validate checks that the configured values are usable.
func (c *Settings) Validate() error {
	if c.PlotFormat != nil {
		switch strings.ToLower(*c.PlotFormat) {
		case "png", "svg", "pdf":
		default:
			return fmt.Errorf("plot_format must be png, svg or pdf, got %q", *c.PlotFormat)
		}
	}
	if c.PlotWidthCm != nil && *c.PlotWidthCm <= 0 {
		return fmt.Errorf("plot_width_cm must be positive, got %f", *c.PlotWidthCm)
	}
	if c.PlotHeightCm != nil && *c.PlotHeightCm <= 0 {
		return fmt.Errorf("plot_height_cm must be positive, got %f", *c.PlotHeightCm)
	}
	if c.GetRecordHistory() && c.GetDBPath() == "" {
		return fmt.Errorf("record_history requires db_path")
	}
	return nil
}

// GetDBPath returns the db_path value or the default.
func (c *Settings) GetDBPath() string {
	if c.DBPath == nil {
		return "coverage.db"
	}
	return *c.DBPath
}

// GetRecordHistory returns the record_history value or the default.
func (c *Settings) GetRecordHistory() bool {
	if c.RecordHistory == nil {
		return false
	}
	return *c.RecordHistory
}

// ServesAPI reports whether listen_addr is set to an address.
func (c *Settings) ServesAPI() bool {
	return c.ListenAddr != nil && *c.ListenAddr != ""
}

// GetListenAddr returns the listen_addr value or the default.
func (c *Settings) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080"
	}
	return *c.ListenAddr
}

// GetPlotDir returns the plot_dir value. Empty disables plot export.
func (c *Settings) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}

// GetPlotFormat returns the plot_format value or the default, lower-cased.
func (c *Settings) GetPlotFormat() string {
	if c.PlotFormat == nil || *c.PlotFormat == "" {
		return "png"
	}
	return strings.ToLower(*c.PlotFormat)
}

// GetPlotWidthCm returns the plot_width_cm value or the default.
func (c *Settings) GetPlotWidthCm() float64 {
	if c.PlotWidthCm == nil {
		return 16
	}
	return *c.PlotWidthCm
}

// GetPlotHeightCm returns the plot_height_cm value or the default.
func (c *Settings) GetPlotHeightCm() float64 {
	if c.PlotHeightCm == nil {
		return 12
	}
	return *c.PlotHeightCm
}

// GetVerbose returns the verbose value or the default.
func (c *Settings) GetVerbose() bool {
	if c.Verbose == nil {
		return false
	}
	return *c.Verbose
}
