package member

import "time"

type Member struct {
	ID                int        `db:"id" json:"id"`
	PhoneNumber       string     `db:"phone_number" json:"phone_number"`
	Name              string     `db:"name" json:"name"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              string     `db:"role" json:"role"`
	SubscriptionStart time.Time  `db:"subscription_start" json:"subscription_start"`
	SubscriptionEnd   *time.Time `db:"subscription_end" json:"subscription_end,omitempty"`
	IsInGym           bool       `db:"is_in_gym" json:"is_in_gym"`
	EntryTime         *time.Time `db:"entry_time" json:"entry_time,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// HasActiveSubscription derives subscription validity from the stored date
// range at asOf. It is recomputed on every check and never stored: the
// calendar moves on its own, independent of writes to the member row.
//
// The window is inclusive on both ends. A start date in the future means the
// subscription has not begun yet, even when no end date is set.
func (m *Member) HasActiveSubscription(asOf time.Time) bool {
	day := toDate(asOf)

	if day.Before(toDate(m.SubscriptionStart)) {
		return false
	}

	if m.SubscriptionEnd != nil && day.After(toDate(*m.SubscriptionEnd)) {
		return false
	}

	return true
}

// toDate strips the clock so that date columns and timestamps compare at
// day granularity.
func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// View is the API shape of a member, carrying the derived subscription
// status alongside the stored fields.
type View struct {
	Member
	HasActiveSubscription bool `json:"has_active_subscription"`
}

func (m *Member) ViewAt(asOf time.Time) View {
	return View{
		Member:                *m,
		HasActiveSubscription: m.HasActiveSubscription(asOf),
	}
}

type RegisterRequest struct {
	PhoneNumber       string `json:"phone_number" binding:"required,min=5,max=15"`
	Name              string `json:"name" binding:"required,min=2,max=100"`
	Password          string `json:"password" binding:"required,min=6"`
	SubscriptionStart string `json:"subscription_start,omitempty"`
	SubscriptionEnd   string `json:"subscription_end,omitempty"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Member       View   `json:"member"`
}

// UpdateRequest carries admin edits. Nil pointers leave fields untouched;
// an empty subscription_end string clears the end date.
type UpdateRequest struct {
	Name              *string `json:"name,omitempty"`
	SubscriptionStart *string `json:"subscription_start,omitempty"`
	SubscriptionEnd   *string `json:"subscription_end,omitempty"`
}

type InGymResponse struct {
	Count   int    `json:"count"`
	Members []View `json:"members"`
}
