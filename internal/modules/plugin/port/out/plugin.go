package out

import (
	"context"

	"visitlog/internal/modules/plugin/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Export(ctx context.Context, manifest domain.Manifest, req domain.ExportRequest) (domain.ExportResult, error)
}
