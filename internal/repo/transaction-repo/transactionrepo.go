package transactionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const columns = `id, user_id, email, provider_order_id, reference_id, amount, currency,
	status, payment_method, proof_url, captured_amount, provider_response, created_at`

func (r *Repository) Save(ctx context.Context, tx *domain.Transaction) error {
	query := `
        INSERT INTO transactions (user_id, email, provider_order_id, reference_id, amount, currency, status, payment_method, proof_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		tx.UserID, tx.Email, tx.ProviderOrderID, tx.ReferenceID, tx.Amount,
		tx.Currency, tx.Status, tx.PaymentMethod, tx.ProofURL, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return err
	}
	return nil
}

// FindPendingOrder returns the single pending transaction matching the
// provider order id for this user, or nil when no such row exists.
func (r *Repository) FindPendingOrder(ctx context.Context, providerOrderID string, userID int) (*domain.Transaction, error) {
	query := `
        SELECT ` + columns + `
        FROM transactions
        WHERE provider_order_id = $1 AND user_id = $2 AND status = 'pending'
        LIMIT 1
    `
	row := r.db.QueryRow(ctx, query, providerOrderID, userID)

	var tx domain.Transaction
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Email, &tx.ProviderOrderID, &tx.ReferenceID,
		&tx.Amount, &tx.Currency, &tx.Status, &tx.PaymentMethod, &tx.ProofURL,
		&tx.CapturedAmount, &tx.ProviderResponse, &tx.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find pending transaction", zap.Error(err))
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
        SELECT ` + columns + `
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Email, &tx.ProviderOrderID, &tx.ReferenceID,
			&tx.Amount, &tx.Currency, &tx.Status, &tx.PaymentMethod, &tx.ProofURL,
			&tx.CapturedAmount, &tx.ProviderResponse, &tx.CreatedAt,
		)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// UpdateStatus moves a pending transaction into a terminal state and
// attaches the raw provider response. The status guard keeps transitions
// forward-only.
func (r *Repository) UpdateStatus(ctx context.Context, id int, status string, capturedAmount float64, providerResponse []byte) error {
	query := `
        UPDATE transactions
        SET status = $1, captured_amount = $2, provider_response = $3
        WHERE id = $4 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, status, capturedAmount, providerResponse, id)
	if err != nil {
		zap.L().Error("can't update transaction status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("transaction is not pending")
	}
	return nil
}

// FindStalePending lists pending card transactions created before the
// cutoff, for the sweeper to expire.
func (r *Repository) FindStalePending(ctx context.Context, cutoff time.Time, limit uint32) ([]domain.Transaction, error) {
	query := `
        SELECT ` + columns + `
        FROM transactions
        WHERE status = 'pending' AND payment_method = 'paypal' AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, cutoff, int(limit))
	if err != nil {
		zap.L().Error("can't get stale pending transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Email, &tx.ProviderOrderID, &tx.ReferenceID,
			&tx.Amount, &tx.Currency, &tx.Status, &tx.PaymentMethod, &tx.ProofURL,
			&tx.CapturedAmount, &tx.ProviderResponse, &tx.CreatedAt,
		)
		if err != nil {
			zap.L().Error("can't scan stale transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
