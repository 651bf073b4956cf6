package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"visitlog/internal/modules/plugin/domain"
	"visitlog/internal/modules/plugin/dto"
	pluginout "visitlog/internal/modules/plugin/port/out"
	apperrors "visitlog/internal/platform/errors"
)

type PluginService struct {
	store pluginout.ManifestStore
	host  pluginout.Host
}

func NewPluginService(store pluginout.ManifestStore, host pluginout.Host) *PluginService {
	return &PluginService{store: store, host: host}
}

func (s *PluginService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Formats: append([]string(nil), m.Formats...)})
	}
	return out, nil
}

func (s *PluginService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Export hands a rendered table to the named plugin and returns the encoded file.
func (s *PluginService) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	req := domain.ExportRequest{Format: input.Format, Title: input.Title, Columns: input.Columns, Rows: input.Rows}
	if err := req.Validate(); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	manifest, err := s.getRunnableManifest(ctx, input.PluginName)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	if !manifest.Supports(input.Format) {
		return dto.ExportOutput{}, fmt.Errorf("%w: %w: %s does not export %s", domain.ErrFormatUnsupported, apperrors.ErrInvalidInput, manifest.Name, input.Format)
	}
	if s.host == nil {
		return dto.ExportOutput{}, fmt.Errorf("plugin host is not configured")
	}

	result, err := s.host.Export(ctx, manifest, req)
	if err != nil {
		if errors.Is(err, domain.ErrPluginTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return dto.ExportOutput{}, fmt.Errorf("%w: %w", apperrors.ErrTimeout, err)
		}
		return dto.ExportOutput{}, err
	}
	if err := result.Validate(); err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{
		PluginName: manifest.Name,
		Format:     input.Format,
		Content:    result.Content,
		MediaType:  result.MediaType,
		FileExt:    result.FileExt,
	}, nil
}

func (s *PluginService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *PluginService) getRunnableManifest(ctx context.Context, pluginName string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	manifest := domain.Manifest{}
	found := false
	for _, item := range manifests {
		if item.Name == pluginName {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("%w: %w: %q", domain.ErrPluginNotFound, apperrors.ErrNotFound, pluginName)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %w: %s", domain.ErrPluginDisabled, apperrors.ErrInvalidInput, pluginName)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
