package balance

import (
	"context"
	"net/http"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/dto"
	"github.com/nmoskalenko/walletgate/pkg/auth"
	"github.com/nmoskalenko/walletgate/pkg/utils"
)

//go:generate mockgen -source=balance.go -destination=mock.go -package=balance

type Service interface {
	CreateBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

type BalanceHandler struct {
	balanceService Service
}

func New(balanceService Service) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current user balance
//	@Description	Retrieve the current balance and the total deposited amount for the authenticated user.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current and deposited totals"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.balanceService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if balance == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Balance not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Current:   balance.CurrentBalance,
		Deposited: balance.DepositedTotal,
	})
}
