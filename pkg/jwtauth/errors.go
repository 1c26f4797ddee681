package jwtauth

import "errors"

var (
	ErrMissingSecret = errors.New("jwt signing secret is not set")
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidUserID = errors.New("token subject is not a valid user id")
)
