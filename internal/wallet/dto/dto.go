package dto

import "time"

type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"` // VND
}

type DepositRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
	Ref    string `json:"ref,omitempty"` // bank reference etc.
}

type WithdrawRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
	Ref    string `json:"ref,omitempty"`
}

type TransactionResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Amount    int64      `json:"amount"`
	Status    string     `json:"status"`
	Ref       string     `json:"ref,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type RequestCreatedResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"` // pending
}
