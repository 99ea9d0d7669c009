// Package report renders import runs and the end-of-run summary for a
// terminal. It holds no business logic.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"

	"github.com/heartmarshall/membership-backend/internal/app/importer"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Reporter writes human-readable reports to w.
type Reporter struct {
	w            io.Writer
	styles       Styles
	previewLimit int
	topN         int
}

// New creates a Reporter. previewLimit caps listed row errors per file and
// topN caps listed provinces; a negative value means no cap.
func New(w io.Writer, previewLimit, topN int) *Reporter {
	return &Reporter{
		w:            w,
		styles:       newStyles(lipgloss.NewRenderer(w)),
		previewLimit: previewLimit,
		topN:         topN,
	}
}

// WriteRun renders the report of one file.
func (r *Reporter) WriteRun(run importer.ImportRun) error {
	var sb strings.Builder
	s := r.styles

	title := "Import: " + run.Dataset.String()
	if run.SchoolType != "" {
		title += " (" + run.SchoolType.String() + ")"
	}
	if run.DryRun {
		title += " [DRY RUN]"
	}
	sb.WriteString(s.Title.Render(title) + "\n")

	r.field(&sb, "File", run.Path)
	if src := run.Source; src != nil {
		format := src.Format
		if src.SheetName != "" {
			format += ", sheet " + src.SheetName
		}
		r.field(&sb, "Format", format)
		r.field(&sb, "Fingerprint", fmt.Sprintf("%016x (%d bytes)", src.Fingerprint, src.Size))
		r.field(&sb, "Header", strings.Join(src.Header, " | "))
		r.field(&sb, "Rows", fmt.Sprintf("%d (%d data)", src.TotalRows, max(src.TotalRows-1, 0)))
	}
	r.field(&sb, "State", string(run.State))
	r.field(&sb, "Duration", run.Duration.Round(time.Millisecond).String())
	if run.Purged > 0 {
		r.field(&sb, "Purged", strconv.FormatInt(run.Purged, 10))
	}
	if run.FileErr != nil {
		sb.WriteString(s.Error.Render("File error: "+run.FileErr.Error()) + "\n")
	}

	counts := newTable("Processed", "Succeeded", "Duplicate", "Skipped", "Failed")
	counts.addRow(
		strconv.Itoa(run.Processed),
		strconv.Itoa(run.Succeeded),
		strconv.Itoa(run.Duplicate),
		strconv.Itoa(run.Skipped),
		strconv.Itoa(run.Failed),
	)
	sb.WriteString(counts.view(s))

	if len(run.Errors) > 0 {
		shown, more := run.ErrorPreview(r.previewLimit)
		sb.WriteString(s.Label.Render(fmt.Sprintf("Errors (%d):", len(run.Errors))) + "\n")
		for _, e := range shown {
			sb.WriteString(s.Warn.Render("  "+e.String()) + "\n")
		}
		if more > 0 {
			sb.WriteString(s.Muted.Render(fmt.Sprintf("  ... and %d more", more)) + "\n")
		}
	}
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// WriteSummary renders per-file totals and the post-run aggregates.
func (r *Reporter) WriteSummary(sum importer.Summary) error {
	var sb strings.Builder
	s := r.styles

	title := "Summary " + sum.RunID.String()
	if sum.DryRun {
		title += " [DRY RUN]"
	}
	sb.WriteString(s.Title.Render(title) + "\n")

	totals := newTable("Dataset", "State", "Processed", "Succeeded", "Duplicate", "Skipped", "Failed")
	for _, run := range sum.Runs {
		totals.addRow(
			run.Dataset.String(),
			string(run.State),
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Duplicate),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		)
	}
	sb.WriteString(totals.view(s))

	if sum.Aborted {
		sb.WriteString(s.Error.Render("Run aborted: "+errString(sum.AbortErr)) + "\n")
	}
	if sum.AggregatesErr != nil {
		sb.WriteString(s.Warn.Render("Aggregates unavailable: "+sum.AggregatesErr.Error()) + "\n")
	}

	if agg := sum.Aggregates; agg != nil {
		sb.WriteString("\n" + s.Label.Render("Schools by type") + "\n")
		sb.WriteString(r.groupTable("Type", agg.SchoolsByType, -1))

		sb.WriteString("\n" + s.Label.Render("Schools by province") + "\n")
		sb.WriteString(r.groupTable("Province", agg.SchoolsByProvince, r.topN))
		sb.WriteString(r.spread(agg.SchoolsByProvince))

		sb.WriteString("\n" + s.Label.Render(fmt.Sprintf("Associations: %d", agg.AssociationsTotal)) + "\n")
		sb.WriteString(r.groupTable("Province", agg.AssociationsByProvince, r.topN))
		sb.WriteString(r.spread(agg.AssociationsByProvince))
	}
	sb.WriteString(s.Muted.Render("Duration: "+sum.Duration.Round(time.Millisecond).String()) + "\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *Reporter) field(sb *strings.Builder, label, value string) {
	sb.WriteString(r.styles.Label.Render(label+":") + " " + value + "\n")
}

// groupTable lists the first limit groups (all when limit < 0).
func (r *Reporter) groupTable(label string, groups []domain.GroupCount, limit int) string {
	if len(groups) == 0 {
		return r.styles.Muted.Render("  none") + "\n"
	}
	if limit >= 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	t := newTable(label, "Count")
	for _, g := range groups {
		t.addRow(g.Label, strconv.FormatInt(g.Total, 10))
	}
	return t.view(r.styles)
}

// spread renders mean and median records per group.
func (r *Reporter) spread(groups []domain.GroupCount) string {
	mean, median, ok := Spread(groups)
	if !ok {
		return ""
	}
	return r.styles.Muted.Render(fmt.Sprintf("  %d provinces, mean %.1f, median %.1f per province", len(groups), mean, median)) + "\n"
}

// Spread returns the mean and median of the group totals.
// ok is false when there are no groups.
func Spread(groups []domain.GroupCount) (mean, median float64, ok bool) {
	if len(groups) == 0 {
		return 0, 0, false
	}
	data := make(stats.Float64Data, len(groups))
	for i, g := range groups {
		data[i] = float64(g.Total)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, 0, false
	}
	median, err = stats.Median(data)
	if err != nil {
		return 0, 0, false
	}
	return mean, median, true
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
