package entity

import "time"

type Webhook struct {
	Base

	ShortID       string `gorm:"index"`
	Name          string
	Description   string
	URL           string
	Authorization Map
}

type WebhookLog struct {
	Base

	WebhookID     string `gorm:"index"`
	ShortID       string `gorm:"index"`
	URL           string
	Authorization Map
	Request       Map
	Response      string
	Status        int
	RequestAt     time.Time
	ResponseAt    *time.Time
}
