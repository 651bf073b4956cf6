package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "visitlog/internal/modules/"

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	fset := token.NewFileSet()
	root := filepath.Join("..", "modules")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slash := filepath.ToSlash(path)
		module := moduleName(slash)
		layer := detectLayer(slash)
		if module == "" || layer == "" {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.Contains(importPath, modulePrefix) {
				continue
			}
			if violatesLayerRule(module, layer, importPath) {
				t.Fatalf("forbidden import in %s (%s): %s", slash, layer, importPath)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk modules: %v", err)
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		// Modules meet only at their inbound edge.
		if layer != "adapter/in" {
			return true
		}
		return !isPortIn(importPath) && !isDTO(importPath)
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") || strings.Contains(importPath, "/service/") || strings.Contains(importPath, "/port/")
	case "dto", "port/in":
		return strings.Contains(importPath, "/domain/") || strings.HasSuffix(importPath, "/domain")
	default:
		return false
	}
}

func TestPlatformDoesNotImportModules(t *testing.T) {
	t.Parallel()
	fset := token.NewFileSet()
	err := filepath.WalkDir(filepath.Join("..", "platform"), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			if strings.Contains(strings.Trim(imp.Path.Value, `"`), modulePrefix) {
				t.Fatalf("platform package %s imports module code: %s", filepath.ToSlash(path), imp.Path.Value)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk platform: %v", err)
	}
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, imp string
		want               bool
	}{
		{"report", "adapter/in", modulePrefix + "plugin/port/in", false},
		{"report", "adapter/in", modulePrefix + "plugin/dto", false},
		{"report", "adapter/in", modulePrefix + "plugin/domain", true},
		{"report", "service", modulePrefix + "presence/domain", true},
		{"presence", "service", modulePrefix + "presence/adapter/out", true},
		{"presence", "usecase", modulePrefix + "presence/service", false},
		{"presence", "dto", modulePrefix + "presence/domain", true},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.imp); got != tc.want {
			t.Fatalf("violatesLayerRule(%s, %s, %s): expected %t, got %t", tc.module, tc.layer, tc.imp, tc.want, got)
		}
	}
}
