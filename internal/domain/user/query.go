package user

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type (
	SortField string
	SortOrder string

	// ListFilter is the composable predicate behind listing. Nil filters are ignored.
	ListFilter struct {
		SearchTerm     string
		IsActive       *bool
		Role           *Role
		IncludeDeleted bool

		Page     int
		PageSize int
		SortBy   SortField
		Order    SortOrder
	}

	Page struct {
		Items       Users
		TotalCount  int
		CurrentPage int
		PageSize    int
	}

	Stats struct {
		Total  int
		Active int
	}
)

const (
	SortByUserID      SortField = "user_id"
	SortByUsername    SortField = "username"
	SortByRole        SortField = "role"
	SortByIsActive    SortField = "is_active"
	SortByCreatedAt   SortField = "created_at"
	SortByUpdatedAt   SortField = "updated_at"
	SortByLastLoginAt SortField = "last_login_at"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByUserID, SortByUsername, SortByRole, SortByIsActive,
		SortByCreatedAt, SortByUpdatedAt, SortByLastLoginAt:
		return f, true
	case "":
		return SortByUserID, true
	default:
		return "", false
	}
}

func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAsc, SortDesc:
		return o, true
	case "":
		return SortAsc, true
	default:
		return "", false
	}
}

// Normalized clamps paging to [1, MaxPageSize] and fills sort defaults.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize < 1:
		f.PageSize = 1
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if sf, ok := ParseSortField(string(f.SortBy)); ok {
		f.SortBy = sf
	} else {
		f.SortBy = SortByUserID
	}
	if so, ok := ParseSortOrder(string(f.Order)); ok {
		f.Order = so
	} else {
		f.Order = SortAsc
	}
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)

	return f
}

func (f ListFilter) Offset() int { return (f.Page - 1) * f.PageSize }

func (p Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}
