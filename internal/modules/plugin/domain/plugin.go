package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrPluginNotFound    = errors.New("plugin not found")
	ErrPluginDisabled    = errors.New("plugin is disabled")
	ErrChecksumMismatch  = errors.New("plugin checksum mismatch")
	ErrFormatUnsupported = errors.New("export format not supported by plugin")
	ErrPluginTimeout     = errors.New("plugin timeout")
	ErrMalformedExport   = errors.New("plugin returned a malformed export")
)

var (
	sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)
	formatPattern = regexp.MustCompile(`^[a-z0-9]{1,16}$`)
)

// Manifest registers an exporter binary in plugins.json.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []string `json:"formats"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Formats) == 0 {
		return fmt.Errorf("plugin formats are required")
	}
	seen := map[string]struct{}{}
	for _, format := range m.Formats {
		if !formatPattern.MatchString(format) {
			return fmt.Errorf("invalid format: %q", format)
		}
		if _, ok := seen[format]; ok {
			return fmt.Errorf("duplicate format: %s", format)
		}
		seen[format] = struct{}{}
	}
	return nil
}

func (m Manifest) Supports(format string) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Formats []string
}

// ExportRequest is a rendered table handed to an exporter.
type ExportRequest struct {
	Format  string
	Title   string
	Columns []string
	Rows    [][]string
}

func (r ExportRequest) Validate() error {
	if r.Format == "" {
		return fmt.Errorf("export format is required")
	}
	if len(r.Columns) == 0 {
		return fmt.Errorf("export columns are required")
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(r.Columns))
		}
	}
	return nil
}

type ExportResult struct {
	Content   []byte
	MediaType string
	FileExt   string
}

func (r ExportResult) Validate() error {
	if r.MediaType == "" {
		return fmt.Errorf("%w: media type is required", ErrMalformedExport)
	}
	if r.FileExt == "" {
		return fmt.Errorf("%w: file extension is required", ErrMalformedExport)
	}
	return nil
}
