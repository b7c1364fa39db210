package model

import "time"

type Contract struct {
	ShortID       string    `json:"short_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ApplicationID string    `json:"application_id"`
	NetworkID     string    `json:"network_id"`
	OwnerAddress  string    `json:"owner_address"`
	CreatedAt     time.Time `json:"created_at"`
}

type ContractVersion struct {
	ID              string    `json:"id"`
	Tag             string    `json:"tag"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Hash            string    `json:"hash"`
	ContractAddress string    `json:"contract_address"`
	CreatedAt       time.Time `json:"created_at"`
}

type ContractAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`
}

type DeployContractRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	ApplicationID string           `json:"application_id"`
	NetworkID     string           `json:"network_id"`
	Tag           string           `json:"tag"`
	ABI           []map[string]any `json:"abi"`
	Bytecode      string           `json:"bytecode"`
	Metadata      string           `json:"metadata"`
	Args          []any            `json:"args"`
}

type DeployContractResponse struct {
	ShortID         string `json:"short_id"`
	Tag             string `json:"tag"`
	ContractAddress string `json:"contract_address"`
	OwnerAddress    string `json:"owner_address"`
	TransactionHash string `json:"transaction_hash"`
}

type GetContractRequest struct {
	ShortID string `json:"short_id" form:"short_id"`
}

type GetContractResponse struct {
	Contract Contract          `json:"contract"`
	Versions []ContractVersion `json:"versions"`
}

type UpdateContractRequest struct {
	ShortID     string `json:"short_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateContractResponse struct{}

type DeleteContractRequest struct {
	ShortID string `json:"short_id"`
}

type DeleteContractResponse struct{}

type DeleteApplicationContractsRequest struct {
	ApplicationID string `json:"application_id"`
}

type DeleteApplicationContractsResponse struct {
	Deleted int `json:"deleted"`
}

type AddContractVersionRequest struct {
	ShortID  string           `json:"short_id"`
	Tag      string           `json:"tag"`
	ABI      []map[string]any `json:"abi"`
	Bytecode string           `json:"bytecode"`
	Metadata string           `json:"metadata"`
	Args     []any            `json:"args"`
}

type AddContractVersionResponse struct {
	Tag             string `json:"tag"`
	ContractAddress string `json:"contract_address"`
	TransactionHash string `json:"transaction_hash"`
}

type AddContractAccountRequest struct {
	ShortID string `json:"short_id"`
	Name    string `json:"name"`
}

type AddContractAccountResponse struct {
	Address string `json:"address"`
}

type GetContractAccountsRequest struct {
	ShortID string `json:"short_id" form:"short_id"`
}

type GetContractAccountsResponse struct {
	Accounts []ContractAccount `json:"accounts"`
}

type UpdateContractAccountRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type UpdateContractAccountResponse struct{}
