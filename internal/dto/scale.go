package dto

// ScaleSnapshotResponse is the current state of the live scale.
type ScaleSnapshotResponse struct {
	WeightKg        float64 `json:"weightKg"`
	Stable          bool    `json:"stable"`
	Connected       bool    `json:"connected"`
	ConnectionError string  `json:"connectionError,omitempty"`
}

// ScaleSettingsResponse reports the configured scale connection, read-only.
type ScaleSettingsResponse struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baudRate"`
	Simulate bool   `json:"simulate"`
}
