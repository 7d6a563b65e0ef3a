package domain

import "errors"

var (
	// ErrProductNotFound is returned when no product matches an identifier
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDatasetUnavailable is returned when the source table cannot be read
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrMalformedDataset is returned when the source table cannot be parsed
	ErrMalformedDataset = errors.New("malformed dataset")
)
