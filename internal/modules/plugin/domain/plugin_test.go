package domain_test

import (
	"errors"
	"strings"
	"testing"

	"visitlog/internal/modules/plugin/domain"
)

var sha = strings.Repeat("a", 64)

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		manifest  domain.Manifest
		shouldErr bool
	}{
		{name: "valid", manifest: domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", SHA256: sha, Enabled: true, Formats: []string{"csv", "xlsx"}}, shouldErr: false},
		{name: "missing name", manifest: domain.Manifest{Version: "1", Binary: "/tmp/p", SHA256: sha, Formats: []string{"csv"}}, shouldErr: true},
		{name: "missing version", manifest: domain.Manifest{Name: "p", Binary: "/tmp/p", SHA256: sha, Formats: []string{"csv"}}, shouldErr: true},
		{name: "missing binary", manifest: domain.Manifest{Name: "p", Version: "1", SHA256: sha, Formats: []string{"csv"}}, shouldErr: true},
		{name: "missing sha", manifest: domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", Formats: []string{"csv"}}, shouldErr: true},
		{name: "no formats", manifest: domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", SHA256: sha}, shouldErr: true},
		{name: "bad format", manifest: domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", SHA256: sha, Formats: []string{"CSV"}}, shouldErr: true},
		{name: "duplicate format", manifest: domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", SHA256: sha, Formats: []string{"csv", "csv"}}, shouldErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.manifest.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestExportRequestValidate(t *testing.T) {
	t.Parallel()
	ok := domain.ExportRequest{Format: "csv", Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	ragged := ok
	ragged.Rows = [][]string{{"1"}}
	if err := ragged.Validate(); err == nil {
		t.Fatalf("expected ragged row error")
	}
	if err := (domain.ExportRequest{Columns: []string{"a"}}).Validate(); err == nil {
		t.Fatalf("expected missing format error")
	}
}

func TestExportResultValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.ExportResult{MediaType: "text/csv"}).Validate(); !errors.Is(err, domain.ErrMalformedExport) {
		t.Fatalf("expected malformed export, got %v", err)
	}
	if err := (domain.ExportResult{MediaType: "text/csv", FileExt: ".csv"}).Validate(); err != nil {
		t.Fatalf("expected valid result, got %v", err)
	}
}
