package repository

import "errors"

var (
	// ErrConnection reports an unreachable store or rejected credentials
	ErrConnection = errors.New("storage: connection failed")

	// ErrQuery reports a read or write that failed during execution
	ErrQuery = errors.New("storage: query failed")

	// ErrMovieNotFound is returned when a rating targets an unknown movie
	ErrMovieNotFound = errors.New("storage: movie not found")

	// ErrClosed is returned by every operation after Close
	ErrClosed = errors.New("storage: store closed")
)
