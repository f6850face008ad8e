package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/nmoskalenko/walletgate/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

var txColumns = []string{
	"id", "user_id", "email", "provider_order_id", "reference_id", "amount", "currency",
	"status", "payment_method", "proof_url", "captured_amount", "provider_response", "created_at",
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		tx        *domain.Transaction
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Save pending card transaction",
			tx: &domain.Transaction{
				UserID:          1,
				Email:           "user@example.com",
				ProviderOrderID: "ORDER-1",
				Amount:          100.0,
				Currency:        "USD",
				Status:          "pending",
				PaymentMethod:   "paypal",
				CreatedAt:       createdAt,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
					WithArgs(1, "user@example.com", "ORDER-1", "", 100.0, "USD", "pending", "paypal", "", createdAt).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(10))
			},
			expectErr: false,
		},
		{
			name: "Database error on save",
			tx: &domain.Transaction{
				UserID:          1,
				Email:           "user@example.com",
				ProviderOrderID: "ORDER-1",
				Amount:          100.0,
				Currency:        "USD",
				Status:          "pending",
				PaymentMethod:   "paypal",
				CreatedAt:       createdAt,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
					WithArgs(1, "user@example.com", "ORDER-1", "", 100.0, "USD", "pending", "paypal", "", createdAt).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), tt.tx)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 10, tt.tx.ID)
			}
		})
	}
}

func TestRepository_FindPendingOrder(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		orderID   string
		userID    int
		mockSetup func()
		expectErr bool
		result    *domain.Transaction
	}{
		{
			name:    "Pending transaction found",
			orderID: "ORDER-1",
			userID:  1,
			mockSetup: func() {
				rows := pgxmock.NewRows(txColumns).
					AddRow(10, 1, "user@example.com", "ORDER-1", "", 100.0, "USD",
						"pending", "paypal", "", 0.0, []byte(nil), createdAt)
				mock.ExpectQuery(regexp.QuoteMeta("WHERE provider_order_id = $1 AND user_id = $2 AND status = 'pending'")).
					WithArgs("ORDER-1", 1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Transaction{
				ID:              10,
				UserID:          1,
				Email:           "user@example.com",
				ProviderOrderID: "ORDER-1",
				Amount:          100.0,
				Currency:        "USD",
				Status:          "pending",
				PaymentMethod:   "paypal",
				CreatedAt:       createdAt,
			},
		},
		{
			name:    "No pending transaction",
			orderID: "ORDER-2",
			userID:  1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE provider_order_id = $1 AND user_id = $2 AND status = 'pending'")).
					WithArgs("ORDER-2", 1).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:    "Database error",
			orderID: "ORDER-1",
			userID:  1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE provider_order_id = $1 AND user_id = $2 AND status = 'pending'")).
					WithArgs("ORDER-1", 1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindPendingOrder(context.Background(), tt.orderID, tt.userID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		length    int
	}{
		{
			name:   "Transactions found",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows(txColumns).
					AddRow(11, 1, "user@example.com", "ORDER-2", "", 75.0, "USD",
						"completed", "paypal", "", 75.0, []byte(`{"status":"COMPLETED"}`), createdAt).
					AddRow(10, 1, "user@example.com", "", "ref-1", 120.0, "USD",
						"pending", "bank_transfer", "https://i.ibb.co/abc/proof.png", 0.0, []byte(nil), createdAt.Add(-time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			length:    2,
		},
		{
			name:   "No transactions",
			userID: 2,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
					WithArgs(2).
					WillReturnRows(pgxmock.NewRows(txColumns))
			},
			expectErr: false,
			length:    0,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByUserID(context.Background(), tt.userID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.length)
			}
		})
	}
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name        string
		id          int
		status      string
		captured    float64
		response    []byte
		mockSetup   func()
		expectedErr string
	}{
		{
			name:     "Pending transaction completed",
			id:       10,
			status:   "completed",
			captured: 100.0,
			response: []byte(`{"status":"COMPLETED"}`),
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND status = 'pending'")).
					WithArgs("completed", 100.0, []byte(`{"status":"COMPLETED"}`), 10).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectedErr: "",
		},
		{
			name:     "Transaction already finalized",
			id:       10,
			status:   "completed",
			captured: 100.0,
			response: nil,
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND status = 'pending'")).
					WithArgs("completed", 100.0, []byte(nil), 10).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectedErr: "transaction is not pending",
		},
		{
			name:     "Database error",
			id:       10,
			status:   "failed",
			captured: 0,
			response: nil,
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND status = 'pending'")).
					WithArgs("failed", 0.0, []byte(nil), 10).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.UpdateStatus(context.Background(), tt.id, tt.status, tt.captured, tt.response)
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_FindStalePending(t *testing.T) {
	repo, mock := NewMock(t)
	cutoff := time.Now().Add(-3 * time.Hour)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		length    int
	}{
		{
			name: "Stale pending transactions found",
			mockSetup: func() {
				rows := pgxmock.NewRows(txColumns).
					AddRow(10, 1, "user@example.com", "ORDER-1", "", 100.0, "USD",
						"pending", "paypal", "", 0.0, []byte(nil), cutoff.Add(-time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'pending' AND payment_method = 'paypal' AND created_at < $1")).
					WithArgs(cutoff, 100).
					WillReturnRows(rows)
			},
			expectErr: false,
			length:    1,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'pending' AND payment_method = 'paypal' AND created_at < $1")).
					WithArgs(cutoff, 100).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindStalePending(context.Background(), cutoff, 100)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.length)
			}
		})
	}
}
