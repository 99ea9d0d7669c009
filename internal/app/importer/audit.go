package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// auditFileName is "<dataset>-<run id>.csv".
func auditFileName(run ImportRun, runID uuid.UUID) string {
	return fmt.Sprintf("%s-%s.csv", run.Dataset, runID)
}

// writeAudit writes one line per row that was not written (row, kind,
// message) to dir and returns the file path.
func writeAudit(dir string, run ImportRun, runID uuid.UUID) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audit dir: %w", err)
	}

	path = filepath.Join(dir, auditFileName(run, runID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audit file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close audit file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "kind", "message"}); err != nil {
		return "", fmt.Errorf("write audit header: %w", err)
	}
	if run.FileErr != nil {
		if err := w.Write([]string{"0", "file", run.FileErr.Error()}); err != nil {
			return "", fmt.Errorf("write audit row: %w", err)
		}
	}
	for _, n := range run.Notices {
		if err := w.Write([]string{strconv.Itoa(n.Row), string(n.Kind), n.Message}); err != nil {
			return "", fmt.Errorf("write audit row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush audit file: %w", err)
	}
	return path, nil
}
