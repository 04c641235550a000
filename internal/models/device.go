package models

import "time"

type DeviceMode string

const (
	DeviceModeToday DeviceMode = "TODAY"
	DeviceModeWeek  DeviceMode = "WEEK"
)

// Device is a paired hardware display. The device code is its only
// credential: whoever knows the code can read the owner's agenda.
type Device struct {
	ID         string     `json:"id"`
	DeviceCode string     `json:"deviceCode"`
	UserID     string     `json:"userId"`
	Mode       DeviceMode `json:"mode"`
	LastSync   *time.Time `json:"lastSync"`
	CreatedAt  time.Time  `json:"createdAt"`
}
