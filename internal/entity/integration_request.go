package entity

import "github.com/contractdock/backend/pkg/enum"

type IntegrationRequestType string

var (
	IntegrationRequestTypeCall = enum.New(IntegrationRequestType("call"))
	IntegrationRequestTypeSend = enum.New(IntegrationRequestType("send"))
)

type IntegrationRequest struct {
	Base

	ShortID string `gorm:"index"`
	Type    IntegrationRequestType
	Method  string
	Inputs  Array[any]
	Outputs Map
	Status  bool
}
