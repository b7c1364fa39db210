package entity

type APIKey struct {
	Base

	// Token keeps the SHA256 of the issued key, never the key itself.
	Token         string `gorm:"index"`
	ApplicationID string `gorm:"index"`
	CreatedBy     string
}
