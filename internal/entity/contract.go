package entity

type Contract struct {
	Base

	ShortID       string `gorm:"uniqueIndex"`
	Name          string
	Description   string
	ApplicationID string `gorm:"index"`
	NetworkID     string
	OwnerID       string
	OwnerAddress  string

	// Encrypted with the platform secret. Never stored or cached in clear.
	OwnerPrivateKey string
}

type ContractVersion struct {
	Base

	ShortID     string `gorm:"index:idx_contract_versions_short_id_tag,unique"`
	Tag         string `gorm:"index:idx_contract_versions_short_id_tag,unique;default:v1.0"`
	Name        string
	Description string

	ABI      Array[map[string]any]
	Args     Array[any]
	Bytecode string
	Metadata string

	// Hash fingerprints the compiled artifact, keccak256 over short id,
	// metadata, and constructor args.
	Hash string `gorm:"uniqueIndex;size:64"`

	ContractAddress string
}

type ContractAccount struct {
	Base

	ShortID string `gorm:"index:idx_contract_accounts_short_id_address,unique"`
	Name    string
	Address string `gorm:"index:idx_contract_accounts_short_id_address,unique"`

	// Encrypted with the platform secret.
	PrivateKey string

	IsActive bool `gorm:"default:true"`
}
