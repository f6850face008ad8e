package balancerepo

import (
	"context"

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

func (r *Repository) GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, current_balance, deposited_total
        FROM balances
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.DepositedTotal)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) CreateUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        INSERT INTO balances (user_id, current_balance, deposited_total)
        VALUES ($1, 0, 0)
        RETURNING id, user_id, current_balance, deposited_total
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.DepositedTotal)
	if err != nil {
		zap.L().Error("failed to create user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Credit increments the balance server-side so concurrent captures for the
// same user never lose an update.
func (r *Repository) Credit(ctx context.Context, userID int, amount float64) (*domain.Balance, error) {
	var updatedBalance domain.Balance
	query := `
		UPDATE balances
		SET current_balance = current_balance + $1, deposited_total = deposited_total + $1
		WHERE user_id = $2
		RETURNING id, user_id, current_balance, deposited_total
	`
	row := r.db.QueryRow(ctx, query, amount, userID)
	err := row.Scan(&updatedBalance.ID, &updatedBalance.UserID, &updatedBalance.CurrentBalance, &updatedBalance.DepositedTotal)
	if err != nil {
		zap.L().Error("failed to credit user balance", zap.Error(err))
		return nil, err
	}
	return &updatedBalance, nil
}
