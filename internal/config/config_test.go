package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banerRana/docpipe/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const baseConfig = `
[database]
name = "docpipe"
user = "docpipe"

[storage]
account_name = "stacct"

[model]
base_url = "https://api.example.com/v1"
model = "gpt-4o"
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, baseConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults = %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Pipeline.ConfidenceThreshold != 0.8 {
		t.Errorf("confidence threshold = %v, want 0.8", cfg.Pipeline.ConfidenceThreshold)
	}
	if cfg.Pipeline.TargetClassification != "Invoice" {
		t.Errorf("target classification = %q, want Invoice", cfg.Pipeline.TargetClassification)
	}
	if cfg.Pipeline.FilePattern != `.*\.(pdf)$` {
		t.Errorf("file pattern = %q", cfg.Pipeline.FilePattern)
	}
	if cfg.Model.Timeout != "120s" {
		t.Errorf("model timeout = %q, want 120s", cfg.Model.Timeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DOCPIPE_SERVER_PORT", "9090")
	t.Setenv("DOCPIPE_DATABASE_HOST", "db.internal")
	t.Setenv("DOCPIPE_MODEL_API_KEY", "secret")
	t.Setenv("DOCPIPE_PIPELINE_CONFIDENCE_THRESHOLD", "0.9")
	t.Setenv("DOCPIPE_PIPELINE_MAX_CONCURRENCY", "8")

	cfg, err := config.Load(writeConfig(t, baseConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database host = %q", cfg.Database.Host)
	}
	if cfg.Model.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.Model.APIKey)
	}
	if cfg.Pipeline.ConfidenceThreshold != 0.9 {
		t.Errorf("confidence threshold = %v, want 0.9", cfg.Pipeline.ConfidenceThreshold)
	}
	if cfg.Pipeline.MaxConcurrency != 8 {
		t.Errorf("max concurrency = %d, want 8", cfg.Pipeline.MaxConcurrency)
	}
}

func TestLoadOverlay(t *testing.T) {
	overlay := writeConfig(t, `
[server]
port = 9999

[pipeline]
target_classification = "Receipt"
`)
	t.Setenv(config.OverlayEnv, overlay)

	cfg, err := config.Load(writeConfig(t, baseConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("server port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Pipeline.TargetClassification != "Receipt" {
		t.Errorf("target classification = %q, want Receipt", cfg.Pipeline.TargetClassification)
	}
	// Sections absent from the overlay keep their base values.
	if cfg.Database.Name != "docpipe" {
		t.Errorf("database name = %q, want docpipe", cfg.Database.Name)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing database name",
			content: `
[database]
user = "docpipe"

[storage]
account_name = "stacct"

[model]
base_url = "https://api.example.com/v1"
model = "gpt-4o"
`,
		},
		{
			name: "missing storage auth",
			content: `
[database]
name = "docpipe"
user = "docpipe"

[model]
base_url = "https://api.example.com/v1"
model = "gpt-4o"
`,
		},
		{
			name: "missing model base url",
			content: `
[database]
name = "docpipe"
user = "docpipe"

[storage]
account_name = "stacct"

[model]
model = "gpt-4o"
`,
		},
		{
			name: "bad file pattern",
			content: baseConfig + `
[pipeline]
file_pattern = "([unclosed"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected load error")
			}
		})
	}
}
