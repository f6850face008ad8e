package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/nmoskalenko/walletgate/docs"
	authhandlers "github.com/nmoskalenko/walletgate/internal/handlers/auth"
	balancehandlers "github.com/nmoskalenko/walletgate/internal/handlers/balance"
	deposithandlers "github.com/nmoskalenko/walletgate/internal/handlers/deposits"
	"github.com/nmoskalenko/walletgate/internal/service"
	"github.com/nmoskalenko/walletgate/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock.go -package=handlers

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type DepositHandler interface {
	CreateDeposit(w http.ResponseWriter, r *http.Request)
	CaptureDeposit(w http.ResponseWriter, r *http.Request)
	SubmitBankTransfer(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	DepositHandler DepositHandler
	BalanceHandler BalanceHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		DepositHandler: deposithandlers.New(s.DepositService),
		BalanceHandler: balancehandlers.New(s.BalanceService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/deposits", func(r chi.Router) {
				r.Post("/", h.DepositHandler.CreateDeposit)
				r.Post("/{orderID}/capture", h.DepositHandler.CaptureDeposit)
				r.Post("/bank-transfer", h.DepositHandler.SubmitBankTransfer)
			})
			r.Get("/transactions", h.DepositHandler.GetTransactions)
			r.Get("/balance", h.BalanceHandler.GetBalance)
		})
	})

	return r
}
