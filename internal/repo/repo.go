package repo

import (
	"github.com/nmoskalenko/walletgate/internal/pg"
	balancerepo "github.com/nmoskalenko/walletgate/internal/repo/balance-repo"
	transactionrepo "github.com/nmoskalenko/walletgate/internal/repo/transaction-repo"
	userrepo "github.com/nmoskalenko/walletgate/internal/repo/user-repo"
	"github.com/nmoskalenko/walletgate/internal/service/authservice"
	"github.com/nmoskalenko/walletgate/internal/service/balanceservice"
	"github.com/nmoskalenko/walletgate/internal/service/depositservice"
)

type Repositories struct {
	UserRepo        authservice.Repo
	TransactionRepo depositservice.TransactionRepo
	BalanceRepo     balanceservice.BalanceRepo
}

func New(conn pg.Database) *Repositories {
	userRepo := userrepo.New(conn)
	transactionRepo := transactionrepo.New(conn)
	balanceRepo := balancerepo.New(conn)

	return &Repositories{
		UserRepo:        userRepo,
		TransactionRepo: transactionRepo,
		BalanceRepo:     balanceRepo,
	}
}
