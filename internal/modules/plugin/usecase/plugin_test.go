package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"visitlog/internal/modules/plugin/domain"
	"visitlog/internal/modules/plugin/dto"
	"visitlog/internal/modules/plugin/service"
	"visitlog/internal/modules/plugin/usecase"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct{}

func (fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: "p1", Version: "1", Formats: []string{"csv", "xlsx"}}, nil
}
func (fakeHost) Export(_ context.Context, _ domain.Manifest, req domain.ExportRequest) (domain.ExportResult, error) {
	return domain.ExportResult{Content: []byte(req.Title), MediaType: "text/csv", FileExt: ".csv"}, nil
}

func TestUsecaseListDoctorAndExport(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t)
	uc := usecase.NewInteractor(service.NewPluginService(fakeManifestStore{manifests: []domain.Manifest{manifest}}, fakeHost{}))

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "p1" || len(list[0].Formats) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}

	docs, err := uc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(docs) != 1 || !docs[0].LifecycleOK {
		t.Fatalf("unexpected doctor result: %+v", docs)
	}

	out, err := uc.Export(context.Background(), dto.ExportInput{PluginName: "p1", Format: "csv", Title: "week", Columns: []string{"a"}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(out.Content) != "week" || out.FileExt != ".csv" {
		t.Fatalf("unexpected export: %+v", out)
	}
}

func manifestWithBinary(t *testing.T) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "plugin-bin")
	if err := os.WriteFile(binPath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{
		Name:    "p1",
		Version: "1",
		Binary:  binPath,
		SHA256:  hex.EncodeToString(hash[:]),
		Enabled: true,
		Formats: []string{"csv", "xlsx"},
	}
}
