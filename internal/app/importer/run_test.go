package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

func TestImportRun_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    []State
		wantErr bool
	}{
		{"happy path", []State{StateReading, StateProcessing, StateReporting, StateDone}, false},
		{"fails while reading", []State{StateReading, StateFailed}, false},
		{"fails while processing", []State{StateReading, StateProcessing, StateFailed}, false},
		{"cannot skip reading", []State{StateProcessing}, true},
		{"cannot fail from idle", []State{StateFailed}, true},
		{"cannot fail while reporting", []State{StateReading, StateProcessing, StateReporting, StateFailed}, true},
		{"done is terminal", []State{StateReading, StateProcessing, StateReporting, StateDone, StateReading}, true},
		{"failed is terminal", []State{StateReading, StateFailed, StateProcessing}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := newImportRun(domain.DatasetSchools, "x.csv", false)
			var err error
			for _, s := range tt.path {
				if err = run.transition(s); err != nil {
					break
				}
			}
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], run.State)
			}
		})
	}
}

func TestImportRun_Counters(t *testing.T) {
	t.Parallel()

	run := newImportRun(domain.DatasetAssociations, "x.csv", false)
	run.recordSuccess()
	run.recordDuplicate(3, "dup")
	run.recordSkip(4, "short")
	run.recordFailure(5, "boom")
	run.recordFailure(6, "boom again")

	assert.Equal(t, 5, run.Processed)
	assert.Equal(t, 1, run.Succeeded)
	assert.Equal(t, 1, run.Duplicate)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 2, run.Failed)
	assert.Equal(t, []domain.RowError{{Row: 5, Message: "boom"}, {Row: 6, Message: "boom again"}}, run.Errors)
	assert.Len(t, run.Notices, 4)
}

func TestImportRun_ErrorPreview(t *testing.T) {
	t.Parallel()

	run := ImportRun{}
	for i := range 13 {
		run.Errors = append(run.Errors, domain.RowError{Row: i + 2, Message: "x"})
	}

	shown, more := run.ErrorPreview(10)
	assert.Len(t, shown, 10)
	assert.Equal(t, 3, more)
	assert.Equal(t, 2, shown[0].Row)

	shown, more = run.ErrorPreview(20)
	assert.Len(t, shown, 13)
	assert.Zero(t, more)
}

func TestImportRun_FailKeepsError(t *testing.T) {
	t.Parallel()

	run := newImportRun(domain.DatasetSchools, "x.csv", false)
	require.NoError(t, run.transition(StateReading))

	cause := errors.New("gone")
	run.fail(cause)

	assert.True(t, run.FileFailed())
	assert.Same(t, cause, run.FileErr)
}
