package handlers

// CurrentQuery is also used by the briefing endpoint.
type CurrentQuery struct {
	Location string `form:"location"`
	Units    string `form:"units"`
}

type ForecastQuery struct {
	Location string `form:"location"`
	Days     *int   `form:"days"`
	Units    string `form:"units"`
}

type AlertsQuery struct {
	Location string `form:"location"`
}

// StatusResponse is served at the root path.
type StatusResponse struct {
	Status   string `json:"status"`
	Server   string `json:"server"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
	DataMode string `json:"data_mode"`
	MCPPath  string `json:"mcp_path"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Provider  string `json:"provider,omitempty"`
	DataMode  string `json:"data_mode,omitempty"`
}
