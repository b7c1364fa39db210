package model

type GetStatsRequest struct {
	ShortID       string `json:"short_id" form:"short_id"`
	ApplicationID string `json:"application_id" form:"application_id"`
	NetworkID     string `json:"network_id" form:"network_id"`
}

type GetStatsResponse struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Month   int64 `json:"month"`
	Quarter int64 `json:"quarter"`
	Year    int64 `json:"year"`
}
