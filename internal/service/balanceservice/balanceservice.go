package balanceservice

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/pkg/cache"
)

//go:generate mockgen -source=balanceservice.go -destination=mock.go -package=balanceservice

const balanceTTL = 30 * time.Second

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	CreateUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	Credit(ctx context.Context, userID int, amount float64) (*domain.Balance, error)
}

type Service struct {
	balanceRepo BalanceRepo
	cache       cache.Cache
}

func New(balanceRepo BalanceRepo, c cache.Cache) *Service {
	return &Service{
		balanceRepo: balanceRepo,
		cache:       c,
	}
}

// CacheKey names the cached balance entry for a user. Writers that credit
// the balance delete this key.
func CacheKey(userID int) string {
	return "balance:" + strconv.Itoa(userID)
}

// GetBalance reads through the cache; any cache failure falls back to the
// repository.
func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	if cached, ok := s.cache.Get(ctx, CacheKey(userID)); ok {
		var balance domain.Balance
		if err := json.Unmarshal([]byte(cached), &balance); err == nil {
			return &balance, nil
		}
		zap.L().Warn("invalid cached balance, falling back", zap.Int("userID", userID))
	}

	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	if balance != nil {
		if encoded, err := json.Marshal(balance); err == nil {
			s.cache.Set(ctx, CacheKey(userID), string(encoded), balanceTTL)
		}
	}
	return balance, nil
}

func (s *Service) CreateBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.balanceRepo.CreateUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to create balance", zap.Error(err))
		return nil, err
	}
	return balance, nil
}
