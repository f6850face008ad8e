package sweeper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/service/depositservice"
)

// Sweeper fails pending card deposits whose provider order has long
// expired, so abandoned checkout attempts don't pile up as pending rows.
// pending -> failed is a forward transition; a late capture attempt then
// sees no pending row and reports not-found.

//go:generate mockgen -source=sweeper.go -destination=mock.go -package=sweeper

var inFlight sync.Map

type TransactionRepo interface {
	FindStalePending(ctx context.Context, cutoff time.Time, limit uint32) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int, status string, capturedAmount float64, providerResponse []byte) error
}

type Service struct {
	repo          TransactionRepo
	limit         uint32
	workerPool    WorkerPoolI
	sweepInterval time.Duration
	maxPendingAge time.Duration
}

func New(repo TransactionRepo) *Service {
	return &Service{
		repo:          repo,
		limit:         1000,
		workerPool:    NewWorkerPool(10),
		sweepInterval: time.Minute,
		maxPendingAge: 3 * time.Hour,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Pending-deposit sweeper started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxPendingAge)
	stale, err := s.repo.FindStalePending(ctx, cutoff, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch stale pending transactions", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, tx := range stale {
		tx := tx

		if _, loaded := inFlight.LoadOrStore(tx.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer inFlight.Delete(tx.ID)
				return s.expire(ctx, tx)
			})
			if err != nil {
				inFlight.Delete(tx.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error sweeping stale transactions", zap.Error(err))
	}
}

func (s *Service) expire(ctx context.Context, tx domain.Transaction) error {
	if err := s.repo.UpdateStatus(ctx, tx.ID, depositservice.StatusFailed, 0, nil); err != nil {
		return err
	}
	zap.L().Info("Expired stale pending deposit",
		zap.Int("transactionID", tx.ID),
		zap.String("orderID", tx.ProviderOrderID),
		zap.Time("createdAt", tx.CreatedAt),
	)
	return nil
}
