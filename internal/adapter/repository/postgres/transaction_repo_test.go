package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/mmconsole/internal/domain"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestTransaction() domain.NewTransaction {
	return domain.NewTransaction{
		DraftID:   "draft-1",
		ValueDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Narration: "call money placement",
		Lines: []domain.NewTransactionLine{
			{AccountNo: "A", DrCr: domain.Debit, TranCcy: "BDT", FcyAmt: decimal.NewFromInt(500), ExchangeRate: decimal.NewFromInt(1), LcyAmt: decimal.NewFromInt(500)},
			{AccountNo: "B", DrCr: domain.Credit, TranCcy: "BDT", FcyAmt: decimal.NewFromInt(500), ExchangeRate: decimal.NewFromInt(1), LcyAmt: decimal.NewFromInt(500)},
		},
	}
}

func newTestTransactionRepository(mock pgxmock.PgxPoolIface) *TransactionRepository {
	r := NewRetrier()
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond

	return NewTransactionRepository(newTxManagerWithPool(mock), r, fixedID("txn-1"))
}

func TestTransactionRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	created := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs("txn-1", "draft-1", "Entry", pgxmock.AnyArg(), "call money placement", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "draft_id", "status", "value_date", "narration", "created_at"}).
			AddRow("txn-1", "draft-1", "Entry",
				pgtype.Date{Time: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), Valid: true},
				"call money placement",
				pgtype.Timestamptz{Time: created, Valid: true}))
	mock.ExpectExec("INSERT INTO transaction_lines").
		WithArgs("txn-1", int32(1), "A", "D", "BDT", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO transaction_lines").
		WithArgs("txn-1", int32(2), "B", "C", "BDT", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	tx, err := newTestTransactionRepository(mock).Create(context.Background(), newTestTransaction())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.ID != "txn-1" || tx.Status != domain.StatusEntry || len(tx.Lines) != 2 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !tx.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created at %v", tx.CreatedAt)
	}

	assertExpectations(t, mock)
}

func TestTransactionRepository_DuplicateDraftIsRejected(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "transactions_draft_id_key"})
	mock.ExpectRollback()

	_, err := newTestTransactionRepository(mock).Create(context.Background(), newTestTransaction())
	if !errors.Is(err, domain.ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestTransactionRepository_UnknownAccountIsRejected(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(pgxmock.NewRows([]string{"id", "draft_id", "status", "value_date", "narration", "created_at"}).
			AddRow("txn-1", "draft-1", "Entry", pgtype.Date{Valid: true}, "", pgtype.Timestamptz{Valid: true}))
	mock.ExpectExec("INSERT INTO transaction_lines").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: "transaction_lines_account_no_fkey"})
	mock.ExpectRollback()

	_, err := newTestTransactionRepository(mock).Create(context.Background(), newTestTransaction())
	if !errors.Is(err, domain.ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}
}

func TestTransactionRepository_RetriesSerializationFailure(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(pgxmock.NewRows([]string{"id", "draft_id", "status", "value_date", "narration", "created_at"}).
			AddRow("txn-1", "draft-1", "Entry", pgtype.Date{Valid: true}, "", pgtype.Timestamptz{Valid: true}))
	mock.ExpectExec("INSERT INTO transaction_lines").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO transaction_lines").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if _, err := newTestTransactionRepository(mock).Create(context.Background(), newTestTransaction()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	assertExpectations(t, mock)
}
