package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any paginated query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Page describes the resolved pagination for a result set.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the requested page to one-based values.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize resolves both params at once.
func Normalize(p Params) Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// Offset converts the normalized params into a row offset.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// Resolve builds the Page summary for a total row count.
func Resolve(p Params, total int64) Page {
	norm := Normalize(p)
	totalPages := int(total) / norm.Limit
	if int(total)%norm.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return Page{
		Page:       norm.Page,
		Limit:      norm.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
