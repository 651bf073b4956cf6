package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	pluginrpc "visitlog/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Report"
	csvType   = "text/csv"
	xlsxType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:    "reportexport",
		Version: "1.0.0",
		Formats: []string{"csv", "xlsx"},
	}, nil
}

func (s *server) Export(_ context.Context, in *pluginrpc.ExportRequest) (*pluginrpc.ExportResponse, error) {
	switch in.Format {
	case "csv":
		content, err := encodeCSV(in)
		if err != nil {
			return nil, err
		}
		return &pluginrpc.ExportResponse{Content: content, MediaType: csvType, FileExt: ".csv"}, nil
	case "xlsx":
		content, err := encodeXLSX(in)
		if err != nil {
			return nil, err
		}
		return &pluginrpc.ExportResponse{Content: content, MediaType: xlsxType, FileExt: ".xlsx"}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", in.Format)
	}
}

func encodeCSV(in *pluginrpc.ExportRequest) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(in.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(in.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(in *pluginrpc.ExportRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	row := 1
	if in.Title != "" {
		if err := f.SetCellValue(sheetName, "A1", in.Title); err != nil {
			return nil, err
		}
		row = 3
	}
	if err := setRow(f, row, in.Columns); err != nil {
		return nil, err
	}
	for i, cells := range in.Rows {
		if err := setRow(f, row+1+i, cells); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &values)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
