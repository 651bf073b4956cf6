package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	pluginrpc "visitlog/internal/modules/plugin/adapter/out/rpc"
	"visitlog/internal/modules/plugin/domain"
	pluginout "visitlog/internal/modules/plugin/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

// GRPCHost starts one plugin process per call and kills it afterwards.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) pluginout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.Metadata{}, fmt.Errorf("%w: metadata of %s", domain.ErrPluginTimeout, manifest.Name)
		}
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Formats: meta.Formats}, nil
}

func (h *GRPCHost) Export(ctx context.Context, manifest domain.Manifest, req domain.ExportRequest) (domain.ExportResult, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.ExportResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Export(callCtx, &pluginrpc.ExportRequest{
		Format:  req.Format,
		Title:   req.Title,
		Columns: req.Columns,
		Rows:    req.Rows,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.ExportResult{}, fmt.Errorf("%w: export %s via %s", domain.ErrPluginTimeout, req.Format, manifest.Name)
		}
		return domain.ExportResult{}, fmt.Errorf("export: %w", err)
	}
	return domain.ExportResult{Content: response.Content, MediaType: response.MediaType, FileExt: response.FileExt}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (pluginrpc.ExporterClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(pluginrpc.ExporterClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
