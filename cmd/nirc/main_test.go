package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/nir/ir"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func parseShader(t *testing.T, source string) *ir.Shader {
	t.Helper()
	shader, err := ir.Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return shader
}

func TestApplyConfig_OmittedOptionKeepsShaderSetting(t *testing.T) {
	shader := parseShader(t, "shader s vertex\noption vertex_id_zero_base\n")

	cfg, err := loadConfig(writeConfig(t, "log_level: \"\"\n"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	applyConfig(shader, cfg)

	if shader.Options == nil || !shader.Options.VertexIDZeroBased {
		t.Error("Expected vertex_id_zero_base to survive a config without options")
	}
}

func TestApplyConfig_ExplicitFalseOverrides(t *testing.T) {
	shader := parseShader(t, "shader s vertex\noption vertex_id_zero_base\n")

	cfg, err := loadConfig(writeConfig(t, "options:\n  vertex_id_zero_base: false\n"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	applyConfig(shader, cfg)

	if shader.Options != nil && shader.Options.VertexIDZeroBased {
		t.Error("Expected explicit false to clear vertex_id_zero_base")
	}
}

func TestApplyConfig_ExplicitTrueSets(t *testing.T) {
	shader := parseShader(t, "shader s vertex\n")

	cfg, err := loadConfig(writeConfig(t, "options:\n  vertex_id_zero_base: true\n"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	applyConfig(shader, cfg)

	if shader.Options == nil || !shader.Options.VertexIDZeroBased {
		t.Error("Expected explicit true to set vertex_id_zero_base")
	}
}
