package models

import "time"

type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Page is a page of notes plus the pagination metadata returned by the index
// endpoint.
type Page struct {
	Meta PageMeta `json:"meta"`
	Data []Note   `json:"data"`
}

type PageMeta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	FirstPage   int `json:"first_page"`
}

// NewPageMeta derives the metadata for a page of size perPage.
func NewPageMeta(total, page, perPage int) PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return PageMeta{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    last,
		FirstPage:   1,
	}
}

type SharedExport struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
