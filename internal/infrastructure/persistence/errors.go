package persistence

import (
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateNotFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// translateWriteError maps unique-constraint violations to an ALREADY_EXISTS
// domain error naming the resource. Requires gorm.Config.TranslateError.
func translateWriteError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError("ALREADY_EXISTS", resource+" already exists")
	}
	return err
}

// searchPattern builds a lower-cased substring pattern for LOWER(col) LIKE ?,
// with wildcards in term matched literally. Use it with likeEscape.
func searchPattern(term string) string {
	return "%" + escapeLikePattern(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// likeEscape declares the escape character written by escapeLikePattern
const likeEscape = ` ESCAPE '\'`

// escapeLikePattern escapes special characters in LIKE patterns
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// paginate applies offset/limit when the filter asks for a page
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Paginated() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// orderBy applies a whitelisted sort column
func orderBy(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "id")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}
