package evaluate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"markwise/internal/ai"
	"markwise/internal/bank"
)

// CachedResponse stores a raw gateway response so repeated grading of the
// same answer (re-runs, resumed batches) skips the model call.
type CachedResponse struct {
	Model         string    `json:"model"`
	PromptVersion string    `json:"prompt_version"`
	RawText       string    `json:"raw_text"`
	Usage         *ai.Usage `json:"usage,omitempty"`
	CachedAt      string    `json:"cached_at"`
}

func cacheKey(q bank.Question, answer, model string) string {
	h := sha256.New()
	h.Write([]byte(q.ID))
	h.Write([]byte{0})
	h.Write([]byte(q.Text))
	h.Write([]byte{0})
	h.Write([]byte(q.CorrectAnswer))
	h.Write([]byte{0})
	h.Write([]byte(q.Difficulty))
	h.Write([]byte{0})
	h.Write([]byte(q.Context))
	h.Write([]byte{0})
	h.Write([]byte(answer))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(promptVersion))
	h.Write([]byte(fmt.Sprintf("max:%g", q.MaxScore)))
	return hex.EncodeToString(h.Sum(nil))
}

func cachePath(runsDir, key string) string {
	return filepath.Join(runsDir, "cache", key, "response.json")
}

func loadCache(runsDir, key string) (*CachedResponse, error) {
	b, err := os.ReadFile(cachePath(runsDir, key))
	if err != nil {
		return nil, err
	}
	var out CachedResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out.PromptVersion != promptVersion {
		return nil, fmt.Errorf("cache entry from different prompt version")
	}
	return &out, nil
}

func saveCache(runsDir, key string, out CachedResponse) error {
	path := cachePath(runsDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if out.CachedAt == "" {
		out.CachedAt = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
