package repository

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page holds pagination derived from request query parameters.
type Page struct {
	Page  int
	Limit int
}

// DefaultLimit is the page size used when the limit parameter is absent or
// malformed.
const DefaultLimit = 20

// ParsePage extracts page/limit from query parameters. Non-numeric or
// out-of-range input falls back to the defaults, it is never rejected.
func ParsePage(values url.Values) Page {
	page := atoiDefault(values.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := atoiDefault(values.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func atoiDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Active limits a query to rows that have not been soft-deleted.
func Active() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	}
}

// Paginate applies skip/limit for the given page.
func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// SearchBy adds a case-insensitive substring match on the given column.
// An empty search term leaves the query unchanged.
func SearchBy(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), pattern)
	}
}

// FlagTrue restricts the query to rows with the given boolean column set,
// but only when enabled is true.
func FlagTrue(column string, enabled bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !enabled {
			return db
		}
		return db.Where(fmt.Sprintf("%s = ?", column), true)
	}
}

// MemberOf restricts rows of table to those linked to refID through a join
// table, e.g. tracks that carry a given genre. A zero refID is a no-op.
func MemberOf(table, joinTable, ownKey, refKey string, refID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if refID == 0 {
			return db
		}
		sub := fmt.Sprintf("%s.id IN (SELECT %s FROM %s WHERE %s = ?)", table, ownKey, joinTable, refKey)
		return db.Where(sub, refID)
	}
}
