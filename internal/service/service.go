package service

import (
	"github.com/nmoskalenko/walletgate/internal/handlers/auth"
	"github.com/nmoskalenko/walletgate/internal/handlers/balance"
	"github.com/nmoskalenko/walletgate/internal/handlers/deposits"

	pkgauth "github.com/nmoskalenko/walletgate/pkg/auth"
	"github.com/nmoskalenko/walletgate/pkg/cache"

	"github.com/nmoskalenko/walletgate/internal/pg"
	"github.com/nmoskalenko/walletgate/internal/repo"
	authservice "github.com/nmoskalenko/walletgate/internal/service/authservice"
	balanceservice "github.com/nmoskalenko/walletgate/internal/service/balanceservice"
	depositservice "github.com/nmoskalenko/walletgate/internal/service/depositservice"
)

type Services struct {
	AuthService    auth.Service
	DepositService deposits.Service
	BalanceService balance.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, provider depositservice.Provider, c cache.Cache) *Services {
	balanceService := balanceservice.New(repo.BalanceRepo, c)
	depositService := depositservice.New(repo.TransactionRepo, repo.BalanceRepo, provider, txManager, c)
	authService := authservice.New(repo.UserRepo, balanceService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:    authService,
		DepositService: depositService,
		BalanceService: balanceService,
	}
}
