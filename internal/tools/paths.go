package tools

import (
	"path/filepath"
	"strings"
)

// cleanRelPath normalizes a user-supplied path and rejects anything that
// could escape the working tree: absolute paths and parent-directory
// segments. File tools report a failure here as the "unsafe_path" validation
// fault rather than touching the filesystem.
func cleanRelPath(path string) (string, bool) {
	if path == "" || filepath.IsAbs(path) {
		return "", false
	}
	norm := filepath.Clean(path)
	for _, seg := range strings.Split(norm, string(filepath.Separator)) {
		if seg == ".." {
			return "", false
		}
	}
	return norm, true
}
