package finder

import (
	"math"
	"strings"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

// Default paging limits.
const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// Sort is a field plus direction.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort is "most recently created first".
var DefaultSort = Sort{Field: "created_at", Desc: true}

// Page is an offset window over the sorted collection.
type Page struct {
	Number int
	Size   int
	Offset int
}

// PageInfo describes the window a finder returned.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Offset     int   `json:"offset"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

func newPageInfo(page Page, total int64) PageInfo {
	info := PageInfo{
		Page:       page.Number,
		PageSize:   page.Size,
		Offset:     page.Offset,
		TotalItems: total,
		TotalPages: 1,
	}
	if page.Size > 0 && total > 0 {
		info.TotalPages = int(math.Ceil(float64(total) / float64(page.Size)))
	}
	info.HasMore = int64(page.Offset+page.Size) < total
	return info
}

// parseSort reads the sort key. JSON:API style strings ("title", "-created_at")
// and {field, direction} maps are accepted. Fields outside allowed fall back
// to fallback; a malformed value is a validation error.
func parseSort(raw interface{}, allowed map[string]struct{}, fallback Sort) (Sort, error) {
	var field, direction string

	switch v := raw.(type) {
	case nil:
		return fallback, nil
	case string:
		field = strings.TrimSpace(v)
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			direction = "desc"
		}
	case map[string]interface{}:
		f, okField := v["field"].(string)
		if v["field"] != nil && !okField {
			return Sort{}, apperror.Invalid(KeySort, "field must be a string")
		}
		d, okDirection := v["direction"].(string)
		if v["direction"] != nil && !okDirection {
			return Sort{}, apperror.Invalid(KeySort, "direction must be a string")
		}
		field = strings.TrimSpace(f)
		direction = strings.ToLower(strings.TrimSpace(d))
	case map[string]string:
		field = strings.TrimSpace(v["field"])
		direction = strings.ToLower(strings.TrimSpace(v["direction"]))
	default:
		return Sort{}, apperror.Invalid(KeySort, "must be a field name")
	}

	if field == "" {
		return fallback, nil
	}

	desc := false
	switch direction {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return Sort{}, apperror.Invalid(KeySort, "direction must be asc or desc")
	}

	if _, ok := allowed[field]; !ok {
		return fallback, nil
	}
	return Sort{Field: field, Desc: desc}, nil
}

// parsePage reads the page key. Sizes above max are clamped, not rejected.
// Windows that would overflow the offset are rejected.
func parsePage(raw interface{}, defaultSize, maxSize int) (Page, error) {
	page := Page{Number: 1, Size: defaultSize}

	var fields map[string]interface{}
	switch v := raw.(type) {
	case nil:
		return page, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return page, nil
		}
		number, _, err := parseInt(KeyPage, v)
		if err != nil {
			return Page{}, err
		}
		fields = map[string]interface{}{"number": number}
	case map[string]interface{}:
		fields = v
	case map[string]string:
		fields = make(map[string]interface{}, len(v))
		for key, value := range v {
			fields[key] = value
		}
	default:
		return Page{}, apperror.Invalid(KeyPage, "must be an object")
	}

	if size, ok, err := parseInt("page[size]", fields["size"]); err != nil {
		return Page{}, err
	} else if ok && size > 0 {
		page.Size = size
	}
	if page.Size > maxSize {
		page.Size = maxSize
	}

	if number, ok, err := parseInt("page[number]", fields["number"]); err != nil {
		return Page{}, err
	} else if ok && number > 0 {
		page.Number = number
	}
	if page.Number-1 > (math.MaxInt-page.Size)/page.Size {
		return Page{}, apperror.Invalid("page[number]", "is too large")
	}
	page.Offset = (page.Number - 1) * page.Size

	if offset, ok, err := parseInt("page[offset]", fields["offset"]); err != nil {
		return Page{}, err
	} else if ok {
		if offset < 0 {
			offset = 0
		}
		if offset > math.MaxInt-page.Size {
			return Page{}, apperror.Invalid("page[offset]", "is too large")
		}
		page.Offset = offset
		page.Number = offset/page.Size + 1
	}

	return page, nil
}
