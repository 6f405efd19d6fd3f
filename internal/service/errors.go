package service

import "errors"

// Service errors
var (
	ErrPublisherNotConfigured = errors.New("price change publisher is not configured")
)
