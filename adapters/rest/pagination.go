package rest

import (
	"net/http"
	"strconv"

	"github.com/andarie1/task-manager/core"
)

type PageOut[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage converts one page of items and links the neighbouring pages relative to r.
func NewPage[S, T any](r *http.Request, l core.List[S], convert func(S) T) PageOut[T] {
	out := PageOut[T]{Count: l.Count, Results: make([]T, 0, len(l.Items))}
	for _, it := range l.Items {
		out.Results = append(out.Results, convert(it))
	}

	if l.HasNext() {
		out.Next = pageLink(r, l.Page.Limit, l.Page.Offset+l.Page.Limit)
	}
	if l.HasPrev() {
		out.Previous = pageLink(r, l.Page.Limit, max(l.Page.Offset-l.Page.Limit, 0))
	}
	return out
}

func pageLink(r *http.Request, limit, offset int) *string {
	q := r.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}

	link := r.URL.Path + "?" + q.Encode()
	return &link
}
