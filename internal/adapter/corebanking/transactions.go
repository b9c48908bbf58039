package corebanking

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iho/mmconsole/internal/domain"
)

// TransactionGateway implements usecase.TransactionGateway over the
// transaction creation endpoint.
type TransactionGateway struct {
	client *Client
}

// NewTransactionGateway creates a new TransactionGateway.
func NewTransactionGateway(client *Client) *TransactionGateway {
	return &TransactionGateway{client: client}
}

// Create posts the transaction once. A 4xx answer is ErrSubmissionRejected
// carrying the server message.
func (g *TransactionGateway) Create(ctx context.Context, in domain.NewTransaction) (*domain.Transaction, error) {
	req := createTransactionJSON{
		ValueDate: in.ValueDate.Format("2006-01-02"),
		Narration: in.Narration,
		Lines:     make([]lineJSON, len(in.Lines)),
	}
	for i, l := range in.Lines {
		req.Lines[i] = lineJSON{
			AccountNo:    l.AccountNo,
			DrCrFlag:     string(l.DrCr),
			TranCcy:      l.TranCcy,
			FcyAmt:       l.FcyAmt,
			ExchangeRate: l.ExchangeRate,
			LcyAmt:       l.LcyAmt,
			Memo:         l.Memo,
		}
	}

	var resp transactionJSON
	if err := g.client.do(ctx, http.MethodPost, "/transactions", req, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var se *statusError
		if errors.As(err, &se) && se.status >= 400 && se.status < 500 {
			return nil, fmt.Errorf("%w: %s", domain.ErrSubmissionRejected, se.message)
		}

		return nil, fmt.Errorf("%w: POST /transactions: %v", domain.ErrServiceUnavailable, err)
	}

	status := domain.TransactionStatus(resp.Status)
	if status == "" {
		status = domain.StatusEntry
	}

	return &domain.Transaction{
		ID:        resp.ID,
		Status:    status,
		ValueDate: in.ValueDate,
		Narration: in.Narration,
		Lines:     in.Lines,
		CreatedAt: resp.CreatedAt,
	}, nil
}
