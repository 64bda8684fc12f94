package domain

import "errors"

var (
	// ErrMenuAPIFailure is returned when a menu API request fails
	ErrMenuAPIFailure = errors.New("menu API request failed")

	// ErrFeaturedUnavailable is returned when the best-foods endpoint cannot be reached
	ErrFeaturedUnavailable = errors.New("featured catalog unavailable")

	// ErrInvalidCategory is returned for category strings outside the closed set
	ErrInvalidCategory = errors.New("unknown menu category")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
