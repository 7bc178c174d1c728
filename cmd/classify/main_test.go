package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// completionServer replies "1" to comments mentioning "buena", "0" to "confío",
// and fails with 500 for "falla". Everything else gets "3".
func completionServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		comment := req.Messages[len(req.Messages)-1].Content

		if strings.Contains(comment, "falla") {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		label := "3"
		switch {
		case strings.Contains(comment, "buena"):
			label = "1"
		case strings.Contains(comment, "confío"):
			label = "0"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": req.Model,
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": label}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	srv := completionServer(t)
	t.Setenv("STANCE_COMPLETION_BASE_URL", srv.URL+"/v1")
	t.Setenv("STANCE_COMPLETION_TOKEN", "")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	args = append([]string{"-config", cfgPath}, args...)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestRunComment(t *testing.T) {
	code, stdout, stderr := execute(t, "-token", "sk-test", "-comment", "Es buena")

	if code != 0 {
		t.Fatalf("exit code: got %d, stderr: %s", code, stderr)
	}
	if stdout != "1\n" {
		t.Errorf("stdout: got %q, want %q", stdout, "1\n")
	}
}

func TestRunCommentCallFailure(t *testing.T) {
	code, stdout, stderr := execute(t, "-token", "sk-test", "-comment", "esto falla")

	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if stdout != "Error\n" {
		t.Errorf("stdout: got %q, want %q", stdout, "Error\n")
	}
	if !strings.Contains(stderr, "notice: classification failed") {
		t.Errorf("stderr should carry a notice: %s", stderr)
	}
}

func TestRunFileToStdout(t *testing.T) {
	in := writeInput(t, "comentarios.csv", "Author,Comment\nana,Es buena\nluis,No confío en eso\nmar,esto falla\n")

	code, stdout, stderr := execute(t, "-token", "sk-test", "-workers", "2", "-file", in)

	if code != 0 {
		t.Fatalf("exit code: got %d, stderr: %s", code, stderr)
	}

	want := "Author,Comment,predicted_topic\nana,Es buena,1\nluis,No confío en eso,0\nmar,esto falla,Error\n"
	if stdout != want {
		t.Errorf("stdout:\ngot  %q\nwant %q", stdout, want)
	}
	if !strings.Contains(stderr, "notice: row 3 failed") {
		t.Errorf("stderr should report row 3: %s", stderr)
	}
	if !strings.Contains(stderr, "classified 3 rows (1 failed)") {
		t.Errorf("stderr should summarize: %s", stderr)
	}
}

func TestRunFileToOut(t *testing.T) {
	in := writeInput(t, "comentarios.csv", "Comment\nEs buena\nHoy llovió\n")
	out := filepath.Join(t.TempDir(), "resultados_clasificacion.csv")

	code, stdout, stderr := execute(t, "-token", "sk-test", "-file", in, "-out", out)

	if code != 0 {
		t.Fatalf("exit code: got %d, stderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty: %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "Comment,predicted_topic\nEs buena,1\nHoy llovió,3\n" {
		t.Errorf("output: got %q", string(data))
	}
}

func TestRunErrors(t *testing.T) {
	noComment := writeInput(t, "sin_columna.csv", "Texto\nEs buena\n")
	legacy := writeInput(t, "viejo.xls", "whatever")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no input", []string{"-token", "sk"}, "one of -comment or -file"},
		{"both inputs", []string{"-token", "sk", "-comment", "x", "-file", "y.csv"}, "mutually exclusive"},
		{"out without file", []string{"-token", "sk", "-comment", "x", "-out", "y.csv"}, "-out requires -file"},
		{"blank comment", []string{"-token", "sk", "-comment", "   "}, "must not be empty"},
		{"stray args", []string{"-comment", "x", "extra"}, "unexpected arguments"},
		{"missing credential", []string{"-comment", "Es buena"}, "token is required"},
		{"bad workers", []string{"-token", "sk", "-workers", "99", "-comment", "x"}, "-workers"},
		{"missing file", []string{"-token", "sk", "-file", "/nonexistent/comentarios.csv"}, "error:"},
		{"missing column", []string{"-token", "sk", "-file", noComment}, "Comment"},
		{"unsupported format", []string{"-token", "sk", "-file", legacy}, "error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)

			if code != 1 {
				t.Errorf("exit code: got %d, want 1", code)
			}
			if stdout != "" {
				t.Errorf("stdout should be empty: %q", stdout)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.wantErr)
			}
		})
	}
}
