package anomaly

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const defaultLimit = 10

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// ListByUser returns the user's most recently detected anomalies.
func (r *Reader) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Anomaly, error) {
	if limit < 1 {
		limit = defaultLimit
	}

	query := psql.Select(
		sm.Columns(
			psql.Quote("a", "id"),
			psql.Quote("a", "transaction_id"),
			psql.Quote("a", "anomaly_score"),
			psql.Quote("a", "reason"),
			psql.Quote("a", "detected_at"),
			psql.Quote("t", "date"),
			psql.Quote("t", "amount"),
			psql.Quote("t", "category"),
		),
		sm.From(tableName).As("a"),
		sm.InnerJoin("transactions").As("t").OnEQ(psql.Quote("t", "id"), psql.Quote("a", "transaction_id")),
		sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(userID))),
		sm.OrderBy(psql.Quote("a", "detected_at")).Desc(),
		sm.Limit(limit),
	)

	return bob.All(ctx, r.exec, query, scan.StructMapper[*Anomaly]())
}
