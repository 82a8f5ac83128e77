package domain

import (
	"encoding/json"
	"time"
)

// Profile holds the user and organisation attributes MES returns on login.
// CompanyID and PlantID are echoed back verbatim in every fetch payload.
type Profile struct {
	UserKey      string      `json:"userKey"`
	CompanyCode  string      `json:"companyCode"`
	CompanyID    json.Number `json:"companyId"`
	PlantID      json.Number `json:"plantId"`
	PlantCode    string      `json:"plantCode"`
	LanguageCode string      `json:"languageCode"`
	DisplayName  string      `json:"userName"`
}

// Complete reports whether every attribute needed to scope a fetch is present.
func (p Profile) Complete() bool {
	return p.UserKey != "" && p.CompanyID != "" && p.PlantID != "" && p.LanguageCode != ""
}

// Session is an authenticated MES session. A Session only exists once login
// succeeded; there is no partially authenticated state.
type Session struct {
	ID            string    `json:"session_id"`
	Authenticated bool      `json:"authenticated"`
	Profile       Profile   `json:"profile"`
	CreatedAt     time.Time `json:"created_at"`
}
