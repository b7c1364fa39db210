package model

type CallContractRequest struct {
	ShortID string `json:"short_id"`
	Tag     string `json:"tag"`
	Method  string `json:"method"`
	Inputs  []any  `json:"inputs"`
}

type CallContractResponse struct {
	RequestID string         `json:"request_id"`
	Outputs   map[string]any `json:"outputs"`
}

type SendContractRequest struct {
	ShortID string `json:"short_id"`
	Tag     string `json:"tag"`
	Method  string `json:"method"`
	Inputs  []any  `json:"inputs"`

	// Account selects an alternate sender registered for this contract.
	// Empty means the owner credentials.
	Account string `json:"account"`
}

type SendContractResponse struct {
	RequestID       string `json:"request_id"`
	TransactionHash string `json:"transaction_hash"`
}

type GetPastEventsRequest struct {
	ShortID   string `json:"short_id" form:"short_id"`
	Tag       string `json:"tag" form:"tag"`
	Event     string `json:"event" form:"event"`
	FromBlock int64  `json:"from_block" form:"from_block"`
	ToBlock   int64  `json:"to_block" form:"to_block"`
}

type GetPastEventsResponse struct {
	Events []map[string]any `json:"events"`
}

type IntegrationRequest struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Method    string         `json:"method"`
	Inputs    []any          `json:"inputs"`
	Outputs   map[string]any `json:"outputs"`
	Status    bool           `json:"status"`
	CreatedAt string         `json:"created_at"`
}

type GetIntegrationRequestsRequest struct {
	ShortID string `json:"short_id" form:"short_id"`
	Offset  int    `json:"offset" form:"offset"`
	Limit   int    `json:"limit" form:"limit"`
}

type GetIntegrationRequestsResponse struct {
	Requests []IntegrationRequest `json:"requests"`
}
