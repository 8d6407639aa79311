package session

import "github.com/dmitrijs2005/scholarscout/internal/client/models"

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusAuthFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAuthFailed:
		return "auth failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. User is set only when Status is
// StatusAuthenticated; Message only when it is StatusAuthFailed.
type State struct {
	Status  Status
	User    *models.User
	Message string
}

func unauthenticated() State { return State{Status: StatusUnauthenticated} }

func authenticating() State { return State{Status: StatusAuthenticating} }

func authenticated(u *models.User) State { return State{Status: StatusAuthenticated, User: u} }

func authFailed(msg string) State { return State{Status: StatusAuthFailed, Message: msg} }

func (s State) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

func (s State) IsLoading() bool { return s.Status == StatusAuthenticating }

// ErrorMessage is the failure shown to the user, or "".
func (s State) ErrorMessage() string {
	if s.Status != StatusAuthFailed {
		return ""
	}
	return s.Message
}

// UserID returns the id of the authenticated user, or 0.
func (s State) UserID() int64 {
	if s.Status != StatusAuthenticated || s.User == nil {
		return 0
	}
	return s.User.ID
}
