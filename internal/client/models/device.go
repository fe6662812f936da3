package models

import "github.com/dmitrijs2005/movieclient/internal/timex"

type Device struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	LastActive      timex.Time `json:"lastActive"`
	IsCurrentDevice bool       `json:"isCurrentDevice"`
}

// DeviceRegistration is the body of POST /devices/register.
type DeviceRegistration struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	IsCurrentDevice bool   `json:"isCurrentDevice"`
}
