package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/validation"
)

const (
	MsgEmailExists     = "An account with this email already exists. Please use a different email or try logging in."
	MsgUsernameTaken   = "This username is already taken. Please choose a different username."
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgInvalidPassword = "Password does not meet the requirements. Please use at least 8 characters."
	MsgInvalidUsername = "Username is invalid. Use 3-50 letters, numbers, underscores or hyphens."
	MsgMissingFields   = "Please check that all required fields are filled in correctly."
	MsgServerError     = "Server error. Please try again in a moment."
	MsgNetworkError    = "Unable to connect to the server. Please check your internet connection."
	MsgOAuthFailed     = "Authentication failed. Please try again."
	MsgLoginFailed     = "Login failed. Please try again."
)

// Error is a session failure with a message ready for display.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func fail(msg string, err error) *Error {
	return &Error{Message: msg, Err: err}
}

// RegisterMessage translates a registration failure into a message for
// the user. Local validation failures get the same wording as the
// equivalent server-side rejection.
func RegisterMessage(err error) string {
	var ve *validation.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		switch ve.Errors[0].Field {
		case "email":
			return MsgInvalidEmail
		case "password":
			return MsgInvalidPassword
		case "username":
			return MsgInvalidUsername
		default:
			return MsgMissingFields
		}
	}

	msg := api.Message(err)
	lower := strings.ToLower(msg)
	status := api.StatusCode(err)

	switch {
	case strings.Contains(lower, "email already registered"):
		return MsgEmailExists
	case strings.Contains(lower, "username already taken"):
		return MsgUsernameTaken
	case status == 400 && strings.Contains(lower, "email"):
		return MsgInvalidEmail
	case status == 400 && strings.Contains(lower, "password"):
		return MsgInvalidPassword
	case status == 400 && strings.Contains(lower, "username"):
		return MsgInvalidUsername
	case status == 422:
		return MsgMissingFields
	case status == 500:
		return MsgServerError
	case errors.Is(err, api.ErrNetwork), strings.Contains(lower, "network"), strings.Contains(lower, "fetch"):
		return MsgNetworkError
	case msg != "":
		return msg
	default:
		return fmt.Sprintf("Registration failed (status %d)", status)
	}
}

func loginMessage(err error) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return MsgLoginFailed
}
