package pagination

import "math"

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request selects a zero-based page of a listing ordered by id.
type Request struct {
	Page int
	Size int
}

// Normalize clamps the request into a valid window.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

// MaxPage is the highest page whose offset fits in an int for the given size.
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Offset is the number of rows skipped before the page. It saturates at
// math.MaxInt instead of wrapping.
func (r Request) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > MaxPage(r.Size) {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Page is one slice of a listing plus the totals needed to walk the rest.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// New assembles a page for the given request and total row count.
func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        req.Page,
		Size:          req.Size,
	}
}

// Slice pages an in-memory, already ordered listing.
func Slice[T any](all []T, req Request) Page[T] {
	req = req.Normalize()
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := len(all)
	if req.Size < end-start {
		end = start + req.Size
	}
	return New(append([]T(nil), all[start:end]...), req, int64(len(all)))
}

// Map converts page content while keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}
	return Page[U]{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
	}
}
