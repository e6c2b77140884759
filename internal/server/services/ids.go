package services

import (
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/google/uuid"
)

// Upper bounds that keep quantities inside a 32-bit INTEGER column and line
// totals inside int64.
const (
	maxCartQuantity = 10_000
	maxStock        = 1<<31 - 1
	maxPrice        = int64(1_000_000_000_000)
)

// checkID rejects ids that cannot name a stored record. Every key is a UUID,
// so a malformed id is reported as not found before the store sees it.
func checkID(kind, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, common.ErrorNotFound)
	}
	return nil
}
