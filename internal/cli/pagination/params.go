package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Pagination defaults and limits.
const (
	DefaultLimit = 100
	MaxLimit     = 10000
	MaxPageSize  = 1000

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Validation errors.
var (
	ErrInvalidLimit      = errors.New("limit must be between 0 and 10000")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between 1 and %d", MaxPageSize)
	ErrMixedModes        = errors.New("--page and --offset are mutually exclusive")
	ErrPageSizeNeedsPage = errors.New("--page-size requires --page")
	ErrPageNeedsPageSize = errors.New("--page requires --page-size")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
)

// Params holds list-command pagination flags. Page-based mode is active
// when Page > 0; otherwise offset-based mode applies.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// AddFlags registers the four pagination flags on a command.
func (p *Params) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0,
		"Maximum number of results (0 = server default)")
	cmd.Flags().IntVar(&p.Offset, "offset", 0,
		"Number of results to skip (offset-based pagination)")
	cmd.Flags().IntVar(&p.Page, "page", 0,
		"Page number, 1-indexed (page-based pagination)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0,
		"Results per page (requires --page)")
}

// Validate checks bounds and the mutual exclusion of the two modes.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}

	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.PageSize > 0 && p.Page == 0 {
		return ErrPageSizeNeedsPage
	}
	if p.Page > 0 && p.PageSize == 0 {
		return ErrPageNeedsPageSize
	}

	return nil
}

// PageBased reports whether page-based mode is active.
func (p Params) PageBased() bool {
	return p.Page > 0
}

// OffsetLimit converts the params to the offset/limit pair the service
// API expects, regardless of mode.
func (p Params) OffsetLimit() (offset, limit int) {
	if p.PageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// sortPartsMax is the maximum number of parts in a sort expression.
const sortPartsMax = 2

// ParseSort parses "field" or "field:order". The order defaults to
// ascending when omitted.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(expr string) (field, order string, err error) {
	if strings.TrimSpace(expr) == "" {
		return "", "", ErrEmptySortField
	}

	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("invalid sort format %q: use 'field' or 'field:order'", expr)
	}

	field = strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", ErrEmptySortField
	}

	order = SortOrderAsc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}
