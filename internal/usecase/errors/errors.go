package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Ingestion errors
var (
	ErrSymbolRequired       = errors.New("symbol is required")
	ErrNoSegments           = errors.New("no segments found")
	ErrBlobWriteFailed      = errors.New("blob write failed")
	ErrMetadataWriteFailed  = errors.New("metadata write failed")
	ErrFetcherRequired      = errors.New("transcript fetcher is required")
	ErrWriterRequired       = errors.New("dual store writer is required")
	ErrBlobStoreRequired    = errors.New("blob store is required")
	ErrMetadataRepoRequired = errors.New("metadata repository is required")
)
