package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// GetUserTransactions returns the user's transactions, newest date first.
func (r *Reader) GetUserTransactions(ctx context.Context, userID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	}

	if filter != nil {
		if filter.StartDate != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.StartDate))))
		}
		if filter.EndDate != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("date").LTE(psql.Arg(*filter.EndDate))))
		}
		if filter.Category != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
		}
		if filter.MaxCreationTime != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}

	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	return bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Transaction]())
}

func selectColumns() []any {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = psql.Quote(c)
	}
	return cols
}
