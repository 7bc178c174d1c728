package comments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/stance/internal/classifier"
)

// Labeler classifies a single comment. *classifier.Classifier satisfies it.
// Implementations return a usable label even when err is non-nil.
type Labeler interface {
	Classify(ctx context.Context, comment string, creds classifier.Credentials) (string, error)
}

// RowFailure records a row whose classification call failed.
// Row is the 1-based data row number (the header is not counted).
type RowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
	Err   error  `json:"-"`
}

// Report summarizes a table classification run.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	Model       string        `json:"model,omitempty"`
	Rows        int           `json:"rows"`
	Failures    []RowFailure  `json:"failures"`
	Drifted     int           `json:"drifted"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Failed returns the number of rows labeled with the failure sentinel.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Runner applies a Labeler to every row of a comment table.
type Runner struct {
	labeler Labeler
	model   string
	workers int
	logger  *slog.Logger
}

// NewRunner creates a Runner. workers <= 1 classifies rows strictly one at a
// time; larger values bound the number of in-flight calls.
func NewRunner(labeler Labeler, model string, workers int, logger *slog.Logger) *Runner {
	return &Runner{
		labeler: labeler,
		model:   model,
		workers: max(workers, 1),
		logger:  logger.With("system", "runner"),
	}
}

// ClassifyTable labels every row of t and writes the labels into the
// predicted_topic column in place. It fails before any call when the Comment
// column or the credential is missing. A failed row is labeled "Error" and
// recorded in the report; it never aborts the run.
func (r *Runner) ClassifyTable(ctx context.Context, t *Table, creds classifier.Credentials) (*Report, error) {
	comments, err := t.Column(CommentColumn)
	if err != nil {
		return nil, err
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	labels, errs := r.label(ctx, comments, creds)

	if err := t.SetColumn(PredictedColumn, labels); err != nil {
		return nil, fmt.Errorf("write %s: %w", PredictedColumn, err)
	}

	report := &Report{
		ID:       uuid.New(),
		Model:    r.model,
		Rows:     len(labels),
		Failures: []RowFailure{},
	}

	for i, err := range errs {
		if err != nil {
			report.Failures = append(report.Failures, RowFailure{
				Row:   i + 1,
				Error: err.Error(),
				Err:   err,
			})
			continue
		}
		if !classifier.IsLabel(labels[i]) {
			report.Drifted++
		}
	}

	report.Duration = time.Since(start)
	report.CompletedAt = time.Now().UTC()

	r.logger.InfoContext(
		ctx, "table classified",
		"report_id", report.ID,
		"rows", report.Rows,
		"failed", report.Failed(),
		"drifted", report.Drifted,
		"workers", r.workers,
		"duration", report.Duration,
	)

	return report, nil
}

// label classifies comments in order. Each call writes only its own slot, so
// output order is independent of completion order.
func (r *Runner) label(ctx context.Context, comments []string, creds classifier.Credentials) ([]string, []error) {
	labels := make([]string, len(comments))
	errs := make([]error, len(comments))

	if r.workers == 1 {
		for i, comment := range comments {
			labels[i], errs[i] = r.labeler.Classify(ctx, comment, creds)
			r.logRow(ctx, i, len(comments), labels[i])
		}
		return labels, errs
	}

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, comment := range comments {
		g.Go(func() error {
			labels[i], errs[i] = r.labeler.Classify(ctx, comment, creds)
			r.logRow(ctx, i, len(comments), labels[i])
			return nil
		})
	}

	g.Wait()
	return labels, errs
}

func (r *Runner) logRow(ctx context.Context, idx, total int, label string) {
	r.logger.DebugContext(
		ctx, "row classified",
		"row", idx+1,
		"total", total,
		"label", label,
	)
}
