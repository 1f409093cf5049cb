package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"ember/internal/tools"
)

// HostBase derives the native API base from an OpenAI-compatible base URL
// by stripping the trailing /v1 path segment.
func HostBase(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	base = strings.TrimSuffix(base, "/v1")
	return strings.TrimRight(base, "/")
}

// Tags lists installed models via the native /api/tags endpoint. It is the
// fallback for Ollama builds whose v1/models listing is missing or empty.
func (c *Client) Tags(ctx context.Context) ([]tools.ModelTag, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /api/tags: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET /api/tags: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /api/tags: status %d", resp.StatusCode)
	}

	var tags []tools.ModelTag
	gjson.GetBytes(body, "models").ForEach(func(_, m gjson.Result) bool {
		tags = append(tags, tools.ModelTag{
			Name:       m.Get("name").String(),
			Size:       m.Get("size").Int(),
			ModifiedAt: m.Get("modified_at").String(),
		})
		return true
	})
	return tags, nil
}

// unloadAttempt is one shape of the unload request. Ollama versions differ
// on both the path and the field name.
type unloadAttempt struct {
	path  string
	field string
}

var unloadAttempts = []unloadAttempt{
	{path: "/api/unload", field: "model"},
	{path: "/api/stop", field: "model"},
	{path: "/api/stop", field: "name"},
}

// Unload asks the server to evict a model from memory, trying each known
// endpoint shape until one answers 2xx. The returned slice holds one error
// string per failed attempt; a non-empty slice does not mean the unload
// failed overall.
func (c *Client) Unload(ctx context.Context, model string) []string {
	var attemptErrs []string
	for _, a := range unloadAttempts {
		body, err := sjson.Set("{}", a.field, model)
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Sprintf("POST %s: %v", a.path, err))
			continue
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+a.path, strings.NewReader(body))
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Sprintf("POST %s: %v", a.path, err))
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Sprintf("POST %s: %v", a.path, err))
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return attemptErrs
		}
		attemptErrs = append(attemptErrs, fmt.Sprintf("POST %s (%s): status %d", a.path, a.field, resp.StatusCode))
	}
	return attemptErrs
}
