package dto

type BalanceResponseDTO struct {
	Current   float64 `json:"current" example:"500.5"`
	Deposited float64 `json:"deposited" example:"1200"`
}
