package session

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// State — состояние сессии.
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText кодирует состояние строкой в JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status — снимок сессии для слоя представления.
type Status struct {
	State     State            `json:"state"`
	Identity  *models.Identity `json:"admin,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	// Session — номер входа; у каждой новой сессии свой, у Anonymous ноль.
	Session uint64 `json:"-"`
}
