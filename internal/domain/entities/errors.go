package entities

import "errors"

// Domain errors
var (
	// Quarter errors
	ErrInvalidQuarter       = errors.New("invalid quarter format, expected YYYYQX")
	ErrQuarterOutOfRange    = errors.New("quarter must be 1-4")
	ErrInvalidQuarterYear   = errors.New("invalid quarter year")
	ErrInvalidIngestionType = errors.New("invalid ingestion type")
)
