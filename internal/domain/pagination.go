package domain

type Pagination struct {
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

const DefaultPageLimit = 10

// NewPage builds a cursor page from a slice fetched with limit+1 items.
// The extra item, if present, is discarded and signals a further page;
// the cursor is the id of the last item returned.
func NewPage[T any](items []T, limit int, cursorOf func(T) string) Page[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	page := Page[T]{Data: items, Pagination: Pagination{HasMore: hasMore}}
	if hasMore && len(items) > 0 {
		page.Pagination.NextCursor = cursorOf(items[len(items)-1])
	}
	return page
}
