package forecastclient

// DemandResponse is the payload of GET /demand/.
type DemandResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Date           string `json:"date,omitempty"`
	DemandForecast *int   `json:"demand_forecast,omitempty"`
}
