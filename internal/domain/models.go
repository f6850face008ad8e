package domain

import "time"

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Balance struct {
	ID             int     `db:"id"`
	UserID         int     `db:"user_id"`
	CurrentBalance float64 `db:"current_balance"`
	DepositedTotal float64 `db:"deposited_total"`
}

type Transaction struct {
	ID               int       `db:"id"`
	UserID           int       `db:"user_id"`
	Email            string    `db:"email"`
	ProviderOrderID  string    `db:"provider_order_id"`
	ReferenceID      string    `db:"reference_id"`
	Amount           float64   `db:"amount"`
	Currency         string    `db:"currency"`
	Status           string    `db:"status"`
	PaymentMethod    string    `db:"payment_method"`
	ProofURL         string    `db:"proof_url"`
	CapturedAmount   float64   `db:"captured_amount"`
	ProviderResponse []byte    `db:"provider_response"`
	CreatedAt        time.Time `db:"created_at"`
}
