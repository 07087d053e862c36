package api

// SensorStatus is the heartbeat payload the project server expects.
type SensorStatus struct {
	StatusTime     int64   `json:"status_time"`
	LocationValid  bool    `json:"location_valid"`
	LocationLat    float64 `json:"location_lat"`
	LocationLon    float64 `json:"location_lon"`
	BufferedTraces int     `json:"buffered_traces"`
	SessionID      string  `json:"session_id,omitempty"`
}
