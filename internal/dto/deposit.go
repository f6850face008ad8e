package dto

type CreateDepositRequestDTO struct {
	Amount float64 `json:"amount" example:"100"`
}

type CreateDepositResponseDTO struct {
	OrderID string `json:"order_id" example:"5O190127TN364715T"`
}

type CaptureDepositResponseDTO struct {
	OrderID        string  `json:"order_id" example:"5O190127TN364715T"`
	Status         string  `json:"status" example:"completed"`
	CapturedAmount float64 `json:"captured_amount" example:"100"`
}

type BankTransferRequestDTO struct {
	Amount   float64 `json:"amount" example:"75.50"`
	ProofURL string  `json:"proof_url" example:"https://i.ibb.co/abc123/receipt.png"`
}

type BankTransferResponseDTO struct {
	ReferenceID string `json:"reference_id" example:"1d7b7a58-9c3f-4a1e-9a5c-2f9d1a6b3c4d"`
	Status      string `json:"status" example:"pending"`
}

type GetTransactionsResponseDTO struct {
	OrderID        string  `json:"order_id,omitempty" example:"5O190127TN364715T"`
	ReferenceID    string  `json:"reference_id,omitempty" example:"1d7b7a58-9c3f-4a1e-9a5c-2f9d1a6b3c4d"`
	Amount         float64 `json:"amount" example:"100"`
	CapturedAmount float64 `json:"captured_amount,omitempty" example:"100"`
	Currency       string  `json:"currency" example:"USD"`
	Status         string  `json:"status" example:"completed"`
	PaymentMethod  string  `json:"payment_method" example:"paypal"`
	CreatedAt      string  `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}
