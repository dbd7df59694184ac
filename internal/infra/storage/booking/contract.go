package booking

import (
	"context"
	"database/sql"

	"github.com/krish-ktm/clinic-booking-service/pkg/dbmetrics"
)

// Executor interfaces are shared with dbmetrics so the repository works on
// both the plain and the instrumented database.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner is satisfied by *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
