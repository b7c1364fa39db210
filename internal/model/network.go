package model

type Network struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChainType string `json:"chain_type"`
	Version   string `json:"version"`
	Consensus string `json:"consensus"`
	IsPublic  bool   `json:"is_public"`
}

type CreateNetworkRequest struct {
	Name      string `json:"name"`
	ChainType string `json:"chain_type"`
	Version   string `json:"version"`
	Consensus string `json:"consensus"`
	IPAddress string `json:"ip_address"`
	WSPort    string `json:"ws_port"`
	IsPublic  bool   `json:"is_public"`
}

type CreateNetworkResponse struct {
	ID string `json:"id"`
}

type GetNetworksRequest struct{}

type GetNetworksResponse struct {
	Networks []Network `json:"networks"`
}
