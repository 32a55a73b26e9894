package pipeline

import (
	"fmt"

	"vidscribe/internal/language"
	"vidscribe/internal/pagination"
)

// View is the paginated transcript handed to the presentation layer.
type View struct {
	Pages      []pagination.Page  `json:"pages"`
	TotalPages int                `json:"total_pages"`
	Language   language.Detection `json:"language"`
}

// NewView builds a View over pages, detecting the language of text.
func NewView(pages []pagination.Page, text string) View {
	return View{
		Pages:      pages,
		TotalPages: len(pages),
		Language:   language.Detect(text),
	}
}

// Page returns the 1-based page n.
func (v View) Page(n int) (pagination.Page, error) {
	if n < 1 || n > len(v.Pages) {
		return pagination.Page{}, fmt.Errorf("page %d out of range (1-%d)", n, len(v.Pages))
	}
	return v.Pages[n-1], nil
}

// Heading renders the "Page N of M" caption.
func (v View) Heading(n int) string {
	return fmt.Sprintf("Page %d of %d", n, v.TotalPages)
}
