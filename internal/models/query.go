package models

// SortField names a sortable task attribute as it appears in the API.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

// SortFields lists every accepted sort field in display order.
var SortFields = []SortField{SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByPriority, SortByTitle}

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	for _, known := range SortFields {
		if f == known {
			return true
		}
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// ListQuery filters and orders the task list. Empty Status or Priority means no filter.
type ListQuery struct {
	Status   Status
	Priority Priority
	SortBy   SortField
	Order    SortOrder
}

// DefaultListQuery sorts newest first with no filters.
func DefaultListQuery() ListQuery {
	return ListQuery{SortBy: SortByCreatedAt, Order: OrderDesc}
}

// Normalized fills in the default sort when it is missing.
func (q ListQuery) Normalized() ListQuery {
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	return q
}
