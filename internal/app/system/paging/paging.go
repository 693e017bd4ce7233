// internal/app/system/paging/paging.go

// Package paging implements keyset (cursor) pagination for JSON list
// endpoints. Clients page with opaque before/after cursors instead of
// offsets, so inserts between requests never shift the window.
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is the number of rows returned when the client does not
// ask for a specific limit.
const DefaultPageSize = 20

// MaxPageSize caps client-supplied limits.
const MaxPageSize = 100

// ParseLimit reads the "limit" query parameter, clamped to [1, MaxPageSize].
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Direction indicates which way the client is paging.
type Direction int

const (
	Forward  Direction = iota // sort ascending, cursor condition "gt"
	Backward                  // sort descending, cursor condition "lt"
)

// KeysetConfig is the decoded pagination state for one request.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 ascending, -1 descending
	PageSize  int
	Cursor    *wafflemongo.Cursor
}

// Configure decodes the before/after cursors and picks the scan direction.
// A "before" cursor wins if both are present.
func Configure(r *http.Request) KeysetConfig {
	cfg := KeysetConfig{
		Direction: Forward,
		SortOrder: 1,
		PageSize:  ParseLimit(r),
	}

	before := query.Get(r, "before")
	after := query.Get(r, "after")

	if before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind sets sort and a PageSize+1 look-ahead limit on find options.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(int64(cfg.PageSize + 1))
}

// KeysetWindow returns the cursor condition for the query filter, or nil
// when the request carries no cursor.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Result reports whether neighbouring pages exist after trimming.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a fetched slice for keyset pagination. Fetch PageSize+1
// rows first; the extra row only signals that another page exists.
func TrimPage[T any](rows *[]T, cfg KeysetConfig) Result {
	orig := len(*rows)
	var hasPrev, hasNext bool

	if cfg.Direction == Backward {
		if orig > cfg.PageSize {
			*rows = (*rows)[1:]
			hasPrev = true
		}
		hasNext = true
	} else {
		if orig > cfg.PageSize {
			*rows = (*rows)[:cfg.PageSize]
			hasNext = true
		}
		hasPrev = cfg.Cursor != nil
	}

	return Result{HasPrev: hasPrev, HasNext: hasNext}
}

// Reverse restores display order after a backward scan.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}
