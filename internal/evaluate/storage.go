package evaluate

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// indexMu serializes read-modify-write of index.json and the prune that
// follows it, so concurrent batch saves cannot drop each other's entry.
var indexMu sync.Mutex

func genRunID() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1e9))
	return fmt.Sprintf("run_%d_%d", time.Now().UnixMilli(), n.Int64())
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// resultDigest is a SHA-256 commitment over the canonical JSON of a run's
// results, recorded in the index so stored artifacts are tamper-evident.
func resultDigest(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

type RunIndexEntry struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"ts"`
	Graded    int    `json:"graded"`
	Failures  int    `json:"failures"`
	Digest    string `json:"digest,omitempty"`
}

// SaveRun persists a batch run under runsDir and returns its run ID.
func SaveRun(runsDir string, indexLimit, maxRuns int, batch BatchResult) (string, error) {
	runID := genRunID()
	runPath := filepath.Join(runsDir, runID)
	if err := os.MkdirAll(runPath, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	if err := saveJSON(filepath.Join(runPath, "results.json"), batch.Results); err != nil {
		return "", fmt.Errorf("save results: %w", err)
	}
	if err := saveJSON(filepath.Join(runPath, "summary.json"), batch.Summary); err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}

	status := "complete"
	if len(batch.Summary.Failures) > 0 {
		status = "partial"
	}
	entry := RunIndexEntry{
		RunID:     runID,
		Status:    status,
		Timestamp: time.Now().UnixMilli(),
		Graded:    batch.Summary.Graded,
		Failures:  len(batch.Summary.Failures),
		Digest:    resultDigest(batch.Results),
	}
	indexMu.Lock()
	defer indexMu.Unlock()
	if err := updateRunsIndex(runsDir, indexLimit, entry); err != nil {
		return "", fmt.Errorf("update runs index: %w", err)
	}
	if err := pruneRuns(runsDir, maxRuns); err != nil {
		return "", fmt.Errorf("prune runs: %w", err)
	}
	return runID, nil
}

// LoadRun reads a stored batch run back from disk.
func LoadRun(runsDir, runID string) (BatchResult, error) {
	if runID != filepath.Base(runID) || !strings.HasPrefix(runID, "run_") {
		return BatchResult{}, fmt.Errorf("invalid run id")
	}
	runPath := filepath.Join(runsDir, runID)
	var out BatchResult
	b, err := os.ReadFile(filepath.Join(runPath, "results.json"))
	if err != nil {
		return BatchResult{}, err
	}
	if err := json.Unmarshal(b, &out.Results); err != nil {
		return BatchResult{}, err
	}
	b, err = os.ReadFile(filepath.Join(runPath, "summary.json"))
	if err != nil {
		return BatchResult{}, err
	}
	if err := json.Unmarshal(b, &out.Summary); err != nil {
		return BatchResult{}, err
	}
	return out, nil
}

func updateRunsIndex(runsDir string, limit int, entry RunIndexEntry) error {
	if limit <= 0 {
		return nil
	}
	indexPath := filepath.Join(runsDir, "index.json")
	var entries []RunIndexEntry
	if b, err := os.ReadFile(indexPath); err == nil {
		_ = json.Unmarshal(b, &entries)
	}
	entries = append([]RunIndexEntry{entry}, entries...)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return saveJSON(indexPath, entries)
}

// pruneRuns deletes the oldest run directories beyond max. Run IDs embed
// their creation time, so lexicographic order on the millisecond prefix
// is creation order.
func pruneRuns(runsDir string, max int) error {
	if max <= 0 {
		return nil
	}
	dirEntries, err := os.ReadDir(runsDir)
	if err != nil {
		return err
	}
	var runs []string
	for _, de := range dirEntries {
		if de.IsDir() && strings.HasPrefix(de.Name(), "run_") {
			runs = append(runs, de.Name())
		}
	}
	if len(runs) <= max {
		return nil
	}
	sort.Strings(runs)
	for _, name := range runs[:len(runs)-max] {
		if err := os.RemoveAll(filepath.Join(runsDir, name)); err != nil {
			return err
		}
	}
	return nil
}
