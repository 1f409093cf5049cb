package tools

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

const defaultReadMaxBytes = 4096

type ReadFileInput struct {
	Path     string `json:"path" jsonschema_description:"Relative file path."`
	MaxBytes int    `json:"max_bytes,omitempty" jsonschema:"minimum=1,default=4096" jsonschema_description:"Maximum bytes to return (default 4096)."`
}

var ReadFile = Spec{
	Name:        "read_file",
	Description: "Read a small UTF-8 text file (relative path, up to ~4KB).",
	Params:      GenerateSchema[ReadFileInput](),
	Handler:     readFile,
}

func readFile(_ context.Context, args json.RawMessage) (string, error) {
	var in ReadFileInput
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	norm, ok := cleanRelPath(in.Path)
	if !ok {
		return jsonResult(map[string]any{"error": "unsafe_path"}), nil
	}

	f, err := os.Open(norm)
	if err != nil {
		if os.IsNotExist(err) {
			return jsonResult(map[string]any{"error": "not_found"}), nil
		}
		return jsonResult(map[string]any{"error": err.Error()}), nil
	}
	defer f.Close()

	max := in.MaxBytes
	if max <= 0 {
		max = defaultReadMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, int64(max)))
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error()}), nil
	}

	return jsonResult(map[string]any{"path": norm, "preview": string(data)}), nil
}
