package service

import (
	"errors"
	"fmt"
)

// Error taxonomy. The HTTP layer maps these with errors.Is; anything else is
// a storage failure and surfaces as 500 with its message.
var (
	ErrUnauthenticated      = errors.New("unauthorized access")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateApplication = errors.New("You have already applied for this apartment.")
	ErrValidation           = errors.New("validation failed")
)

// notFound yields e.g. "User not found".
func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// WriteResult mirrors the acknowledgement a document store returns for a
// write. Zero counts are omitted.
type WriteResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	UpsertedID    string `json:"upsertedId,omitempty"`
	MatchedCount  int    `json:"matchedCount,omitempty"`
	ModifiedCount int    `json:"modifiedCount,omitempty"`
	DeletedCount  int    `json:"deletedCount,omitempty"`
}

func inserted(id string) *WriteResult {
	return &WriteResult{Acknowledged: true, InsertedID: id}
}

func upserted(id string) *WriteResult {
	return &WriteResult{Acknowledged: true, UpsertedID: id}
}

func modified() *WriteResult {
	return &WriteResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}
}

func deleted() *WriteResult {
	return &WriteResult{Acknowledged: true, DeletedCount: 1}
}
