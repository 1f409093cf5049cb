package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

type WriteFileInput struct {
	Path    string `json:"path" jsonschema_description:"Relative file path."`
	Content string `json:"content" jsonschema_description:"UTF-8 text to write."`
	Mode    string `json:"mode,omitempty" jsonschema:"enum=overwrite,enum=append,default=overwrite" jsonschema_description:"overwrite replaces the file, append adds to it."`
}

var WriteFile = Spec{
	Name:        "write_file",
	Description: "Write UTF-8 text to a file (relative path only). Choose overwrite or append.",
	Params:      GenerateSchema[WriteFileInput](),
	Handler:     writeFile,
}

func writeFile(_ context.Context, args json.RawMessage) (string, error) {
	var in WriteFileInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	norm, ok := cleanRelPath(in.Path)
	if !ok {
		return jsonResult(map[string]any{"error": "unsafe_path", "path": in.Path}), nil
	}

	mode := in.Mode
	if mode == "" {
		mode = "overwrite"
	}
	if mode != "overwrite" && mode != "append" {
		return jsonResult(map[string]any{"error": "bad_mode", "allowed": []string{"overwrite", "append"}}), nil
	}

	if parent := filepath.Dir(norm); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return jsonResult(map[string]any{"error": err.Error(), "path": in.Path}), nil
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mode == "append" {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(norm, flags, 0o644)
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error(), "path": in.Path}), nil
	}
	defer f.Close()

	n, err := f.WriteString(in.Content)
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error(), "path": in.Path}), nil
	}

	return jsonResult(map[string]any{
		"status":        "ok",
		"path":          norm,
		"mode":          mode,
		"bytes_written": n,
	}), nil
}
