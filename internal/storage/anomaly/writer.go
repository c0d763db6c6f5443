package anomaly

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	exec bob.Executor
	Reader
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{
		exec: exec,
		Reader: Reader{
			exec: exec,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, transactionID uuid.UUID, score float64, reason string) (uuid.UUID, error) {
	query := psql.Insert(
		im.Into(tableName, "transaction_id", "anomaly_score", "reason"),
		im.Values(psql.Arg(transactionID), psql.Arg(score), psql.Arg(reason)),
		im.Returning(psql.Quote("id")),
	)

	return bob.One(ctx, w.exec, query, scan.SingleColumnMapper[uuid.UUID])
}
