package common

import "errors"

// Session errors.
var (
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
