package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/postgres/generated"
	"github.com/iho/mmconsole/internal/usecase"
)

// TransactionRepository implements usecase.TransactionGateway by recording
// the transaction in Entry status. Posting to balances happens downstream.
type TransactionRepository struct {
	txManager *TxManager
	retrier   *Retrier
	idGen     usecase.IDGenerator
	now       func() time.Time
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(txManager *TxManager, retrier *Retrier, idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{
		txManager: txManager,
		retrier:   retrier,
		idGen:     idGen,
		now:       time.Now,
	}
}

// Create inserts the header and all lines in one database transaction.
// Constraint violations are reported as ErrSubmissionRejected.
func (r *TransactionRepository) Create(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, usecase.DefaultTransactionTimeout)
	defer cancel()

	var created *domain.Transaction

	err := r.retrier.Retry(txCtx, "create_transaction", func() error {
		return r.txManager.WithinTx(txCtx, func(q *generated.Queries) error {
			row, err := q.CreateTransaction(txCtx, generated.CreateTransactionParams{
				ID:        r.idGen.Generate(),
				DraftID:   in.DraftID,
				Status:    string(domain.StatusEntry),
				ValueDate: timeToPgDate(in.ValueDate),
				Narration: in.Narration,
				CreatedAt: timeToPgTimestamptz(r.now().UTC()),
			})
			if err != nil {
				return err
			}

			for i, l := range in.Lines {
				if err := q.CreateTransactionLine(txCtx, generated.CreateTransactionLineParams{
					TransactionID: row.ID,
					LineNo:        int32(i + 1),
					AccountNo:     l.AccountNo,
					DrCr:          string(l.DrCr),
					TranCcy:       l.TranCcy,
					FcyAmt:        decimalToNumeric(l.FcyAmt),
					ExchangeRate:  decimalToNumeric(l.ExchangeRate),
					LcyAmt:        decimalToNumeric(l.LcyAmt),
					Memo:          l.Memo,
				}); err != nil {
					return err
				}
			}

			created = &domain.Transaction{
				ID:        row.ID,
				Status:    domain.TransactionStatus(row.Status),
				ValueDate: in.ValueDate,
				Narration: row.Narration,
				Lines:     in.Lines,
				CreatedAt: row.CreatedAt.Time,
			}

			return nil
		})
	})
	if err != nil {
		return nil, rejection(err)
	}

	return created, nil
}

func rejection(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrForeignKeyViolation:
		return fmt.Errorf("%w: unknown account (%s)", domain.ErrSubmissionRejected, pgErr.ConstraintName)
	case pgErrUniqueViolation:
		return fmt.Errorf("%w: draft already submitted", domain.ErrSubmissionRejected)
	case pgErrCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrSubmissionRejected, pgErr.Message)
	default:
		return err
	}
}
