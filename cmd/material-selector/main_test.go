package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cannedReplies = []struct {
	marker string
	reply  string
}{
	{"geography expert", "Subtropical."},
	{"selects the best construction material", "Selected Material: brick\nReasoning: cheap and local."},
	{"construction materials expert", `{"easy_to_get": ["brick", "concrete"], "limited": ["steel"], "import_only": []}`},
	{"environmental impact expert", `{"brick": {"carbon_footprint": "medium", "rating": 6, "notes": "kiln fired"}}`},
	{"construction cost analyst", `{"brick": {"relative_cost": "low", "estimated_price_per_unit": "0.10", "notes": "local kilns"}}`},
	{"materials durability expert", `{"brick": {"lifespan_years": 100, "maintenance": "low", "notes": "handles heat"}}`},
}

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		var prompt strings.Builder
		for _, m := range body.Messages {
			prompt.WriteString(m.Content)
		}
		content := ""
		for _, c := range cannedReplies {
			if strings.Contains(prompt.String(), c.marker) {
				content = c.reply
				break
			}
		}

		resp, _ := json.Marshal(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "openai/gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, string(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTestConfig(t *testing.T, baseURL, outDir string) string {
	t.Helper()
	body := fmt.Sprintf(`app:
  name: material-selector
model:
  base_url: %s/v1/
  api_key: test-key
  timeout: 5000
report:
  output_dir: %s
  format: pdf
  auto_open: true
logging:
  level: error
`, baseURL, outDir)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func stubOpen(t *testing.T, err error) *[]string {
	t.Helper()
	var opened []string
	prev := openFile
	openFile = func(path string) error {
		opened = append(opened, path)
		return err
	}
	t.Cleanup(func() { openFile = prev })
	return &opened
}

func TestRun_EndToEndJSON(t *testing.T) {
	srv := newModelServer(t)
	outDir := filepath.Join(t.TempDir(), "reports")
	cfgPath := writeTestConfig(t, srv.URL, outDir)
	opened := stubOpen(t, nil)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-format", "json", "-no-open"}, strings.NewReader("Lahore\nPakistan\n"), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "Enter City: ")
	assert.Contains(t, out, "Enter Country: ")
	assert.Contains(t, out, "AGENTIC MATERIAL SELECTOR")
	assert.Contains(t, out, "Evaluating materials for Lahore, Pakistan (climate: subtropical)...")
	assert.Contains(t, out, "Created reports folder: "+outDir)
	assert.Empty(t, *opened)

	data, err := os.ReadFile(filepath.Join(outDir, "material_evaluation_lahore_pakistan.json"))
	require.NoError(t, err)

	var report struct {
		Availability   map[string][]string `json:"availability"`
		Recommendation string              `json:"recommendation"`
		Metadata       struct {
			Climate   string   `json:"climate"`
			Materials []string `json:"materials"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "subtropical", report.Metadata.Climate)
	assert.Equal(t, []string{"brick", "concrete"}, report.Metadata.Materials)
	assert.Equal(t, "Selected Material: brick\nReasoning: cheap and local.", report.Recommendation)
	assert.Equal(t, map[string][]string{
		"easy_to_get": {"brick", "concrete"},
		"limited":     {"steel"},
		"import_only": {},
	}, report.Availability)
}

func TestRun_FlagsSkipPromptsAndOpenReport(t *testing.T) {
	srv := newModelServer(t)
	outDir := t.TempDir()
	cfgPath := writeTestConfig(t, srv.URL, outDir)
	opened := stubOpen(t, nil)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-city", "Oslo", "-country", "Norway", "-format", "text"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Enter City: ")
	assert.NotContains(t, stdout.String(), "Created reports folder")

	expected := filepath.Join(outDir, "material_evaluation_oslo_norway.txt")
	assert.Equal(t, []string{expected}, *opened)
	assert.Contains(t, stdout.String(), "Report generated and opened: "+expected)
}

func TestRun_OpenFailureStillSucceeds(t *testing.T) {
	srv := newModelServer(t)
	cfgPath := writeTestConfig(t, srv.URL, t.TempDir())
	stubOpen(t, fmt.Errorf("no viewer"))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-city", "Oslo", "-country", "Norway"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Report generated successfully: ")
	assert.Contains(t, stdout.String(), "Could not auto-open report: no viewer")
}

func TestRun_UnsupportedFormat(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://127.0.0.1:1", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-format", "docx"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "docx")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-bogus"}, strings.NewReader(""), &stdout, &stderr))
}

func TestPromptLocation(t *testing.T) {
	var out bytes.Buffer
	loc, err := promptLocation(bufio.NewReader(strings.NewReader("  Lahore \nPakistan")), &out, "", "")

	require.NoError(t, err)
	assert.Equal(t, "Lahore", loc.City)
	assert.Equal(t, "Pakistan", loc.Country)
	assert.Equal(t, "Enter City: Enter Country: ", out.String())
}

func TestPromptLocation_EOF(t *testing.T) {
	var out bytes.Buffer
	_, err := promptLocation(bufio.NewReader(strings.NewReader("")), &out, "", "")
	assert.Error(t, err)
}
