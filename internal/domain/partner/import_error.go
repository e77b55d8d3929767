package partner

import (
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
)

// ImportRowError reports the 1-based batch position that made an import fail
type ImportRowError struct {
	Row int
	Err error
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err.Error())
}

func (e *ImportRowError) Unwrap() error {
	return e.Err
}

// AsDomainError flattens the row error into an INVALID_INPUT domain error
func (e *ImportRowError) AsDomainError() *shared.DomainError {
	return shared.NewDomainError("INVALID_INPUT", e.Error())
}
