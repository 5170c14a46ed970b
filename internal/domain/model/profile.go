package model

import "time"

// Profile is the authenticated identity owned by the auth system. This service
// only ever reads profiles; creation and updates happen at signup, elsewhere.
type Profile struct {
	ID        string // UUID, matches the session subject claim
	Email     string
	FullName  string
	CreatedAt time.Time
}

func (p *Profile) IsZero() bool { return p == nil || p.ID == "" }
