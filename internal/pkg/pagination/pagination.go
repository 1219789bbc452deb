package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query holds parsed limit/offset parameters.
type Query struct {
	Limit  int
	Offset int
}

// FromContext reads ?limit= and ?offset=. Missing values take defaults;
// malformed or negative values are errors, limit is capped at MaxLimit.
func FromContext(c *gin.Context, defaultLimit int) (Query, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	limit, err := parseNonNegative(c.Query("limit"), defaultLimit, "limit")
	if err != nil {
		return Query{}, err
	}
	offset, err := parseNonNegative(c.Query("offset"), 0, "offset")
	if err != nil {
		return Query{}, err
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Query{Limit: limit, Offset: offset}, nil
}

// Apply adds LIMIT/OFFSET to a GORM query.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	db = db.Limit(q.Limit)
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}

func parseNonNegative(raw string, def int, name string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
