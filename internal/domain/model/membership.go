package model

import (
	"crypto/rand"
	"io"
	"time"

	"ngo-membership-platform/internal/domain"

	"github.com/google/uuid"
)

type MembershipType string

const (
	MembershipTypeMember MembershipType = "member" // registered, not yet paying
	MembershipTypePaid   MembershipType = "paid"   // at least one verified payment
)

// Membership links an authenticated profile to its subscription tier.
// One row per profile; membership_type only ever moves forward (member -> paid).
type Membership struct {
	ID        string // UUID
	ProfileID string // UUID of the authenticated identity
	MemberID  string // human-readable code shown on membership cards, e.g. MEM482913
	Type      MembershipType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMembership builds a fresh membership in the unpaid tier. The upgrade to
// "paid" happens only after a payment has been persisted.
func NewMembership(profileID string) (*Membership, error) {
	if profileID == "" {
		return nil, domain.ErrInvalidArgument
	}
	code, err := NewMemberCode()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Membership{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		MemberID:  code,
		Type:      MembershipTypeMember,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewMemberCode creates a human-readable member code of the form MEM followed
// by six digits. The code is a display hint only; uniqueness is enforced by the
// primary key and the profile_id constraint, never by this value.
func NewMemberCode() (string, error) {
	const digits = "0123456789"
	buf := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return "MEM" + string(buf), nil
}

func (m *Membership) IsZero() bool { return m == nil || m.ID == "" }

// IsPaid reports whether the profile has reached the paid tier.
func (m *Membership) IsPaid() bool { return m != nil && m.Type == MembershipTypePaid }
