package entity

import "github.com/contractdock/backend/pkg/enum"

type TransactionStatusType string

var (
	TransactionStatusTypePending = enum.New(TransactionStatusType("pending"))
	TransactionStatusTypeSuccess = enum.New(TransactionStatusType("success"))
	TransactionStatusTypeFailed  = enum.New(TransactionStatusType("failed"))
)

type Transaction struct {
	Base

	ShortID     string                `gorm:"index"`
	Hash        string                `gorm:"uniqueIndex"`
	Status      TransactionStatusType `gorm:"default:pending"`
	FromAddress string
	ToAddress   string
	Input       Map
	BlockNumber uint64
	BlockHash   string
	ExtraData   Map
}
