package deposits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/dto"
	"github.com/nmoskalenko/walletgate/internal/paypal"
	depositservice "github.com/nmoskalenko/walletgate/internal/service/depositservice"
	"github.com/nmoskalenko/walletgate/pkg/auth"
	"github.com/nmoskalenko/walletgate/pkg/utils"
)

//go:generate mockgen -source=deposits.go -destination=mock.go -package=deposits

type Service interface {
	InitiateDeposit(ctx context.Context, userID int, email string, amount float64) (string, error)
	CaptureDeposit(ctx context.Context, userID int, orderID string) (*domain.Transaction, error)
	SubmitBankTransfer(ctx context.Context, userID int, email string, amount float64, proofURL string) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type DepositHandler struct {
	depositService Service
}

func New(depositService Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// CreateDeposit godoc
//
//	@Summary		Initiate a card deposit
//	@Description	Create a payment-provider order for the given amount and record a pending transaction.
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateDepositRequestDTO	true	"Deposit amount"
//	@Success		201		{object}	dto.CreateDepositResponseDTO	"Provider order created"
//	@Failure		400		{object}	utils.Response					"Invalid or below-minimum amount"
//	@Failure		401		{object}	utils.Response					"User not authorized"
//	@Failure		502		{object}	utils.Response					"Payment provider failure"
//	@Router			/api/user/deposits [post]
func (h *DepositHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	email, _ := r.Context().Value(auth.EmailKey).(string)

	var req dto.CreateDepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := h.depositService.InitiateDeposit(r.Context(), userID, email, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrInvalidAmount),
			errors.Is(err, depositservice.ErrAmountBelowMinimum):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paypal.ErrOrderCreateFailed):
			utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.CreateDepositResponseDTO{OrderID: orderID})
}

// CaptureDeposit godoc
//
//	@Summary		Capture a pending card deposit
//	@Description	Capture the provider order and credit the user balance when the captured amount matches the recorded one.
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Param			orderID	path		string	true	"Provider order id"
//	@Success		200		{object}	dto.CaptureDepositResponseDTO	"Deposit completed and balance credited"
//	@Failure		401		{object}	utils.Response					"User not authorized"
//	@Failure		402		{object}	utils.Response					"Capture declined by the provider"
//	@Failure		404		{object}	utils.Response					"No pending transaction for this order"
//	@Failure		409		{object}	utils.Response					"Captured amount mismatch, flagged for review"
//	@Failure		502		{object}	utils.Response					"Payment provider failure"
//	@Router			/api/user/deposits/{orderID}/capture [post]
func (h *DepositHandler) CaptureDeposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "order id is required")
		return
	}

	tx, err := h.depositService.CaptureDeposit(r.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrPendingNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, depositservice.ErrAmountMismatch):
			utils.RespondWithError(w, http.StatusConflict, "captured amount mismatch, please contact support")
		case errors.Is(err, depositservice.ErrCaptureDenied):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, paypal.ErrCaptureFailed):
			utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CaptureDepositResponseDTO{
		OrderID:        tx.ProviderOrderID,
		Status:         tx.Status,
		CapturedAmount: tx.CapturedAmount,
	})
}

// SubmitBankTransfer godoc
//
//	@Summary		Submit a bank transfer for manual review
//	@Description	Record a pending bank-transfer deposit with an uploaded proof-of-payment link. The balance is credited only after manual review.
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BankTransferRequestDTO	true	"Amount and proof link"
//	@Success		201		{object}	dto.BankTransferResponseDTO	"Transfer recorded"
//	@Failure		400		{object}	utils.Response				"Invalid amount or proof link"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/user/deposits/bank-transfer [post]
func (h *DepositHandler) SubmitBankTransfer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	email, _ := r.Context().Value(auth.EmailKey).(string)

	var req dto.BankTransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.depositService.SubmitBankTransfer(r.Context(), userID, email, req.Amount, req.ProofURL)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrInvalidAmount),
			errors.Is(err, depositservice.ErrInvalidProofURL):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.BankTransferResponseDTO{
		ReferenceID: tx.ReferenceID,
		Status:      tx.Status,
	})
}

// GetTransactions godoc
//
//	@Summary		Get deposit history
//	@Description	List the user's deposit transactions, newest first.
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetTransactionsResponseDTO
//	@Success		204	{object}	utils.Response	"No transactions"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *DepositHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	txs, err := h.depositService.GetTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(txs) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No transactions")
		return
	}

	response := make([]dto.GetTransactionsResponseDTO, len(txs))
	for i, tx := range txs {
		response[i] = dto.GetTransactionsResponseDTO{
			OrderID:        tx.ProviderOrderID,
			ReferenceID:    tx.ReferenceID,
			Amount:         tx.Amount,
			CapturedAmount: tx.CapturedAmount,
			Currency:       tx.Currency,
			Status:         tx.Status,
			PaymentMethod:  tx.PaymentMethod,
			CreatedAt:      tx.CreatedAt.Format(time.RFC3339),
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
