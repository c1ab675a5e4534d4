package output_test

import (
	"strings"
	"testing"

	"github.com/feliksas/tastescout-cli/internal/service/output"
)

func TestBuildEnvelope(t *testing.T) {
	env := output.BuildEnvelope("anonymous", map[string]any{"ok": true}, nil, nil)
	if env.Meta["user"] != "anonymous" {
		t.Fatalf("expected user anonymous, got %v", env.Meta["user"])
	}
	requestID, _ := env.Meta["request_id"].(string)
	if !strings.HasPrefix(requestID, "req_") {
		t.Fatalf("expected request_id prefix req_, got %q", requestID)
	}
	generatedAt, _ := env.Meta["generated_at"].(string)
	if !strings.HasSuffix(generatedAt, "Z") {
		t.Fatalf("expected generated_at to end with Z, got %q", generatedAt)
	}
	if len(env.Warnings) != 0 {
		t.Fatalf("expected empty warnings, got %v", env.Warnings)
	}
}

func TestRenderPayload(t *testing.T) {
	env := output.BuildEnvelope("ada", map[string]any{"ok": true}, []string{"warn"}, nil)

	jsonPayload, err := output.RenderPayload(env, output.FormatJSON)
	if err != nil {
		t.Fatalf("render json failed: %v", err)
	}
	if !strings.Contains(jsonPayload, "\"ok\": true") {
		t.Fatalf("expected json payload to include data, got %s", jsonPayload)
	}

	yamlPayload, err := output.RenderPayload(env, output.FormatYAML)
	if err != nil {
		t.Fatalf("render yaml failed: %v", err)
	}
	if !strings.Contains(yamlPayload, "user: ada") {
		t.Fatalf("expected yaml payload to include user, got %s", yamlPayload)
	}
}

func TestParseFormat(t *testing.T) {
	if format, err := output.ParseFormat(""); err != nil || format != output.FormatTable {
		t.Fatalf("expected empty value to default to table, got %v %v", format, err)
	}
	if format, err := output.ParseFormat(" YAML "); err != nil || format != output.FormatYAML {
		t.Fatalf("expected yaml, got %v %v", format, err)
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRenderTable(t *testing.T) {
	text := output.RenderTable("Venues", []string{"Name", "Rating"}, [][]string{{"Tartine", "4.6"}})
	if !strings.HasPrefix(text, "Venues\n") {
		t.Fatalf("expected title line, got %q", text)
	}
	if !strings.Contains(text, "Tartine\t4.6") {
		t.Fatalf("expected row, got %q", text)
	}
}
