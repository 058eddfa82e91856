package loader

import (
	"context"
	"log/slog"
	"strings"

	"github.com/soundprediction/musicgraph/pkg/driver"
)

// SchemaReport lists the outcome of every schema statement.
type SchemaReport struct {
	Applied  []string `json:"applied" yaml:"applied"`
	Existing []string `json:"existing,omitempty" yaml:"existing,omitempty"`
	Failed   []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// OK reports whether no statement failed.
func (r *SchemaReport) OK() bool {
	return len(r.Failed) == 0
}

// InitSchema applies the constraint and index statements in order. Statement
// failures are logged and collected; only context cancellation returns an
// error.
func InitSchema(ctx context.Context, d driver.SchemaManager, logger *slog.Logger) (*SchemaReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	report := &SchemaReport{}
	for _, stmt := range driver.GetSchemaStatements() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		err := d.ApplySchemaStatement(ctx, stmt)
		switch {
		case err == nil:
			report.Applied = append(report.Applied, stmt)
			logger.DebugContext(ctx, "Schema statement applied", "statement", stmt)
		case isExistingSchemaError(err):
			report.Existing = append(report.Existing, stmt)
			logger.DebugContext(ctx, "Schema object already exists", "statement", stmt)
		default:
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed = append(report.Failed, stmt)
			logger.ErrorContext(ctx, "Schema statement failed", "statement", stmt, "error", err)
		}
	}

	logger.InfoContext(ctx, "Schema initialized",
		"applied", len(report.Applied),
		"existing", len(report.Existing),
		"failed", len(report.Failed))
	return report, nil
}

func isExistingSchemaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "An equivalent") ||
		// Neo4j 5 refuses an index that a uniqueness constraint already backs.
		strings.Contains(msg, "index is already created")
}
