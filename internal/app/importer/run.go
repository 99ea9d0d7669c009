package importer

import (
	"fmt"
	"time"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// State is the lifecycle position of one file's import.
type State string

const (
	StateIdle       State = "idle"
	StateReading    State = "reading"
	StateProcessing State = "processing"
	StateReporting  State = "reporting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

var transitions = map[State][]State{
	StateIdle:       {StateReading},
	StateReading:    {StateProcessing, StateFailed},
	StateProcessing: {StateReporting, StateFailed},
	StateReporting:  {StateDone},
}

// NoticeKind classifies a row that was examined but not written.
type NoticeKind string

const (
	NoticeSkipped   NoticeKind = "skipped"
	NoticeDuplicate NoticeKind = "duplicate"
	NoticeFailed    NoticeKind = "failed"
)

// Notice is one row that was not written, kept for the audit trail.
type Notice struct {
	Row     int
	Kind    NoticeKind
	Message string
}

// SourceInfo describes the file a run read.
type SourceInfo struct {
	Format      string
	SheetName   string
	Fingerprint uint64
	Size        int64
	Header      []string
	TotalRows   int
}

// ImportRun is the outcome of importing one file. It is created and owned by
// a single runFile call and returned by value.
type ImportRun struct {
	Dataset    domain.DatasetKind
	SchoolType domain.SchoolType
	Path       string
	DryRun     bool
	State      State
	Source     *SourceInfo

	// Processed counts every data row examined. It always equals
	// Succeeded + Duplicate + Skipped + Failed.
	Processed int
	Succeeded int
	Duplicate int
	Skipped   int
	Failed    int

	// Purged is the number of rows removed by a full replace.
	Purged int64

	// Errors lists every failed row in source order.
	Errors []domain.RowError
	// Notices lists every row not written (failed, skipped, duplicate) in source order.
	Notices []Notice

	// FileErr is set when the file as a whole could not be imported.
	FileErr error

	StartedAt time.Time
	Duration  time.Duration
}

func newImportRun(kind domain.DatasetKind, path string, dryRun bool) *ImportRun {
	return &ImportRun{
		Dataset: kind,
		Path:    path,
		DryRun:  dryRun,
		State:   StateIdle,
	}
}

// transition moves the run to the next state, rejecting moves the lifecycle
// does not allow.
func (r *ImportRun) transition(to State) error {
	for _, allowed := range transitions[r.State] {
		if allowed == to {
			r.State = to
			return nil
		}
	}
	return fmt.Errorf("import run %s: invalid transition %s -> %s", r.Dataset, r.State, to)
}

func (r *ImportRun) fail(err error) {
	r.FileErr = err
	if r.State != StateFailed {
		_ = r.transition(StateFailed)
	}
}

func (r *ImportRun) recordSuccess() {
	r.Processed++
	r.Succeeded++
}

func (r *ImportRun) recordDuplicate(row int, msg string) {
	r.Processed++
	r.Duplicate++
	r.Notices = append(r.Notices, Notice{Row: row, Kind: NoticeDuplicate, Message: msg})
}

func (r *ImportRun) recordSkip(row int, msg string) {
	r.Processed++
	r.Skipped++
	r.Notices = append(r.Notices, Notice{Row: row, Kind: NoticeSkipped, Message: msg})
}

func (r *ImportRun) recordFailure(row int, msg string) {
	r.Processed++
	r.Failed++
	r.Errors = append(r.Errors, domain.RowError{Row: row, Message: msg})
	r.Notices = append(r.Notices, Notice{Row: row, Kind: NoticeFailed, Message: msg})
}

// ErrorPreview returns at most limit errors and how many were left out.
func (r ImportRun) ErrorPreview(limit int) ([]domain.RowError, int) {
	if limit < 0 || len(r.Errors) <= limit {
		return r.Errors, 0
	}
	return r.Errors[:limit], len(r.Errors) - limit
}

// FileFailed reports whether the file as a whole could not be imported.
func (r ImportRun) FileFailed() bool {
	return r.State == StateFailed
}
