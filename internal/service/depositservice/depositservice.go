package depositservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/paypal"
	"github.com/nmoskalenko/walletgate/internal/pg"
	"github.com/nmoskalenko/walletgate/internal/service/balanceservice"
	"github.com/nmoskalenko/walletgate/pkg/cache"
	"github.com/nmoskalenko/walletgate/pkg/validate"
)

//go:generate mockgen -source=depositservice.go -destination=mock.go -package=depositservice

const (
	// MinDepositAmount is the smallest accepted card deposit, in USD.
	MinDepositAmount = 50.0
	DepositCurrency  = "USD"
)

const (
	StatusPending          = "pending"
	StatusCompleted        = "completed"
	StatusFailed           = "failed"
	StatusFlaggedForReview = "flagged_for_review"
)

const (
	MethodPayPal       = "paypal"
	MethodBankTransfer = "bank_transfer"
)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrAmountBelowMinimum = errors.New("amount is below the minimum deposit")
	ErrInvalidProofURL    = errors.New("proof url is missing or malformed")
	ErrPendingNotFound    = errors.New("no pending transaction for this order")
	ErrAmountMismatch     = errors.New("captured amount does not match the recorded amount")
	ErrCaptureDenied      = errors.New("capture was declined by the payment provider")
)

type TransactionRepo interface {
	Save(ctx context.Context, tx *domain.Transaction) error
	FindPendingOrder(ctx context.Context, providerOrderID string, userID int) (*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int, status string, capturedAmount float64, providerResponse []byte) error
	FindStalePending(ctx context.Context, cutoff time.Time, limit uint32) ([]domain.Transaction, error)
}

type BalanceRepo interface {
	Credit(ctx context.Context, userID int, amount float64) (*domain.Balance, error)
}

type Provider interface {
	CreateOrder(amount float64, currency string) (string, error)
	CaptureOrder(orderID string) (paypal.CaptureOutcome, error)
}

type Service struct {
	transactionRepo TransactionRepo
	balanceRepo     BalanceRepo
	provider        Provider
	txManager       pg.TXManager
	cache           cache.Cache
}

func New(transactionRepo TransactionRepo, balanceRepo BalanceRepo, provider Provider, txManager pg.TXManager, c cache.Cache) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		provider:        provider,
		txManager:       txManager,
		cache:           c,
	}
}

// InitiateDeposit creates a provider order for the amount and records it
// as a pending transaction. Client retries may leave duplicate pending
// orders; unclaimed provider orders expire and the sweeper fails them.
func (s *Service) InitiateDeposit(ctx context.Context, userID int, email string, amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	if amount < MinDepositAmount {
		return "", ErrAmountBelowMinimum
	}

	orderID, err := s.provider.CreateOrder(amount, DepositCurrency)
	if err != nil {
		zap.L().Error("can't create provider order", zap.Error(err))
		return "", err
	}

	tx := &domain.Transaction{
		UserID:          userID,
		Email:           email,
		ProviderOrderID: orderID,
		Amount:          amount,
		Currency:        DepositCurrency,
		Status:          StatusPending,
		PaymentMethod:   MethodPayPal,
		CreatedAt:       time.Now(),
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		zap.L().Error("can't save pending transaction", zap.Error(err))
		return "", err
	}

	zap.L().Info("deposit initiated",
		zap.Int("userID", userID),
		zap.String("orderID", orderID),
		zap.Float64("amount", amount),
	)
	return orderID, nil
}

// CaptureDeposit finalizes a pending card deposit. On a completed,
// amount-matched capture the status change and the balance credit commit
// in one database transaction; any other outcome leaves the balance
// untouched.
func (s *Service) CaptureDeposit(ctx context.Context, userID int, orderID string) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.FindPendingOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		zap.L().Info("no pending transaction for capture",
			zap.Int("userID", userID),
			zap.String("orderID", orderID),
		)
		return nil, ErrPendingNotFound
	}

	outcome, err := s.provider.CaptureOrder(orderID)
	if err != nil {
		zap.L().Error("capture call failed", zap.String("orderID", orderID), zap.Error(err))
		return nil, err
	}

	switch result := outcome.(type) {
	case paypal.Completed:
		if result.CapturedAmount != tx.Amount {
			zap.L().Warn("captured amount mismatch",
				zap.String("orderID", orderID),
				zap.Float64("recorded", tx.Amount),
				zap.Float64("captured", result.CapturedAmount),
			)
			if err := s.transactionRepo.UpdateStatus(ctx, tx.ID, StatusFlaggedForReview, result.CapturedAmount, result.Raw); err != nil {
				return nil, err
			}
			return nil, ErrAmountMismatch
		}

		err := s.txManager.Begin(ctx, func(ctx context.Context) error {
			if err := s.transactionRepo.UpdateStatus(ctx, tx.ID, StatusCompleted, result.CapturedAmount, result.Raw); err != nil {
				return err
			}
			if _, err := s.balanceRepo.Credit(ctx, userID, result.CapturedAmount); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			zap.L().Error("can't complete capture transaction", zap.Error(err))
			return nil, err
		}

		s.cache.Delete(ctx, balanceservice.CacheKey(userID))

		tx.Status = StatusCompleted
		tx.CapturedAmount = result.CapturedAmount
		zap.L().Info("deposit captured",
			zap.Int("userID", userID),
			zap.String("orderID", orderID),
			zap.Float64("amount", result.CapturedAmount),
		)
		return tx, nil

	case paypal.Denied:
		if err := s.transactionRepo.UpdateStatus(ctx, tx.ID, StatusFailed, 0, result.Raw); err != nil {
			return nil, err
		}
		zap.L().Info("capture denied",
			zap.String("orderID", orderID),
			zap.String("providerStatus", result.Status),
		)
		return nil, ErrCaptureDenied

	default:
		return nil, fmt.Errorf("unexpected capture outcome %T", outcome)
	}
}

// SubmitBankTransfer records a manual deposit awaiting human review. It
// never credits the balance.
func (s *Service) SubmitBankTransfer(ctx context.Context, userID int, email string, amount float64, proofURL string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !validate.IsProofURL(proofURL) {
		return nil, ErrInvalidProofURL
	}

	tx := &domain.Transaction{
		UserID:        userID,
		Email:         email,
		ReferenceID:   uuid.NewString(),
		Amount:        amount,
		Currency:      DepositCurrency,
		Status:        StatusPending,
		PaymentMethod: MethodBankTransfer,
		ProofURL:      proofURL,
		CreatedAt:     time.Now(),
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		zap.L().Error("can't save bank transfer", zap.Error(err))
		return nil, err
	}

	zap.L().Info("bank transfer submitted",
		zap.Int("userID", userID),
		zap.String("referenceID", tx.ReferenceID),
		zap.Float64("amount", amount),
	)
	return tx, nil
}

func (s *Service) GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error) {
	txs, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return txs, nil
}
