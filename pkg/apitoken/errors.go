package apitoken

import "errors"

var (
	ErrInvalidToken             = errors.New("invalid token")
	ErrTokenExpired             = errors.New("token expired")
	ErrTokenNotFound            = errors.New("token not found")
	ErrMissingAPIKey            = errors.New("api key is required")
	ErrInvalidAuthorizationType = errors.New("invalid authorization type")
	ErrUnauthorized             = errors.New("unauthorized")
)
