package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func invokeJSON(t *testing.T, spec Spec, args string) map[string]any {
	t.Helper()
	r := NewRegistry()
	r.MustRegister(spec)
	got, err := r.Invoke(context.Background(), spec.Name, args)
	if err != nil {
		t.Fatalf("invoke %s: %v", spec.Name, err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("decode %s result %q: %v", spec.Name, got, err)
	}
	return out
}

func TestReadFilePreview(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("notes.txt", []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := invokeJSON(t, ReadFile, `{"path":"notes.txt"}`)
	if out["preview"] != "hello world" {
		t.Fatalf("preview = %q", out["preview"])
	}
	if out["path"] != "notes.txt" {
		t.Fatalf("path = %q", out["path"])
	}
}

func TestReadFileTruncatesToMaxBytes(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("big.txt", []byte("abcdefghij"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := invokeJSON(t, ReadFile, `{"path":"big.txt","max_bytes":4}`)
	if out["preview"] != "abcd" {
		t.Fatalf("preview = %q", out["preview"])
	}
}

func TestReadFileRejectsUnsafePaths(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, path := range []string{"../secret", "/etc/passwd", "a/../../b"} {
		out := invokeJSON(t, ReadFile, `{"path":`+mustJSON(path)+`}`)
		if out["error"] != "unsafe_path" {
			t.Fatalf("path %q: error = %v", path, out["error"])
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	out := invokeJSON(t, ReadFile, `{"path":"absent.txt"}`)
	if out["error"] != "not_found" {
		t.Fatalf("error = %v", out["error"])
	}
}

func TestWriteFileOverwriteAndAppend(t *testing.T) {
	t.Chdir(t.TempDir())

	out := invokeJSON(t, WriteFile, `{"path":"sub/out.txt","content":"first"}`)
	if out["status"] != "ok" || out["mode"] != "overwrite" {
		t.Fatalf("unexpected payload %v", out)
	}
	if out["bytes_written"] != float64(len("first")) {
		t.Fatalf("bytes_written = %v", out["bytes_written"])
	}

	invokeJSON(t, WriteFile, `{"path":"sub/out.txt","content":"+more","mode":"append"}`)
	data, err := os.ReadFile(filepath.Join("sub", "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first+more" {
		t.Fatalf("file content = %q", data)
	}

	invokeJSON(t, WriteFile, `{"path":"sub/out.txt","content":"reset","mode":"overwrite"}`)
	data, _ = os.ReadFile(filepath.Join("sub", "out.txt"))
	if string(data) != "reset" {
		t.Fatalf("file content after overwrite = %q", data)
	}
}

func TestWriteFileRejectsBadMode(t *testing.T) {
	t.Chdir(t.TempDir())
	out := invokeJSON(t, WriteFile, `{"path":"x.txt","content":"y","mode":"truncate"}`)
	if out["error"] != "bad_mode" {
		t.Fatalf("error = %v", out["error"])
	}
}

func TestWriteFileRejectsUnsafePaths(t *testing.T) {
	t.Chdir(t.TempDir())
	out := invokeJSON(t, WriteFile, `{"path":"../escape.txt","content":"y"}`)
	if out["error"] != "unsafe_path" {
		t.Fatalf("error = %v", out["error"])
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
