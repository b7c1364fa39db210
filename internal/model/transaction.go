package model

import "time"

type Transaction struct {
	Hash        string         `json:"hash"`
	Status      string         `json:"status"`
	FromAddress string         `json:"from_address"`
	ToAddress   string         `json:"to_address"`
	BlockNumber uint64         `json:"block_number"`
	BlockHash   string         `json:"block_hash"`
	ExtraData   map[string]any `json:"extra_data"`
	CreatedAt   time.Time      `json:"created_at"`
}

type GetTransactionsRequest struct {
	ShortID string `json:"short_id" form:"short_id"`
	Offset  int    `json:"offset" form:"offset"`
	Limit   int    `json:"limit" form:"limit"`
}

type GetTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
