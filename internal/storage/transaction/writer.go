package transaction

import (
	"context"
	"time"

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

// Insert stores a new transaction and returns its generated ID. A zero Date
// is stored as today.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	date := create.Date
	if date.IsZero() {
		date = time.Now()
	}

	query := psql.Insert(
		im.Into(tableName, "user_id", "date", "amount", "category", "type", "description", "source"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(date),
			psql.Arg(create.Amount),
			psql.Arg(create.Category),
			psql.Arg(create.Type),
			psql.Arg(create.Description),
			psql.Arg(create.Source),
		),
		im.Returning(psql.Quote("id")),
	)

	return bob.One(ctx, w.exec, query, scan.SingleColumnMapper[uuid.UUID])
}
