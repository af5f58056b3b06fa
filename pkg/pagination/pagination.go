package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters. Offset is always (Page-1)*Limit.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// New clamps page and limit into range. Values below the minimum fall back to the defaults.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Parse reads page/limit from the query string. Non-numeric values are treated as absent.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = DefaultLimit
	}
	return New(page, limit)
}

// Scope applies the page window to a gorm query.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit == 0 {
			p = New(p.Page, p.Limit)
		}
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}

// TotalPages is the number of pages needed for total rows. Zero rows is zero pages.
func (p Params) TotalPages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
