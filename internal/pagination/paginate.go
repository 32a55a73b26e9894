package pagination

import (
	"fmt"
	"strings"

	"vidscribe/internal/services"
)

// Tokenizer converts text to an ordered sequence of token identifiers.
type Tokenizer interface {
	Tokenize(text string) []int
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) []int

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []int {
	return f(text)
}

// Page is a contiguous run of sentences [Start, End).
type Page struct {
	// Index is 1-based.
	Index      int    `json:"index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	TokenCount int    `json:"token_count"`
	Text       string `json:"text"`
}

// Paginator packs transcript sentences into pages.
type Paginator struct {
	tokenizer Tokenizer
}

// NewPaginator returns a Paginator that counts tokens with tokenizer.
func NewPaginator(tokenizer Tokenizer) *Paginator {
	return &Paginator{tokenizer: tokenizer}
}

// Paginate splits text into pages of at most tokensPerPage tokens, except
// where a single sentence alone exceeds the budget.
func (p *Paginator) Paginate(text string, tokensPerPage int) ([]Page, error) {
	if tokensPerPage <= 0 {
		return nil, budgetError(tokensPerPage)
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return []Page{{Index: 1}}, nil
	}

	counts := make([]int, len(sentences))
	for i, sentence := range sentences {
		counts[i] = len(p.tokenizer.Tokenize(sentence))
	}

	bounds, err := Boundaries(counts, tokensPerPage)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		total := 0
		for _, count := range counts[start:end] {
			total += count
		}
		pages = append(pages, Page{
			Index:      i + 1,
			Start:      start,
			End:        end,
			TokenCount: total,
			Text:       strings.Join(sentences[start:end], " "),
		})
	}
	return pages, nil
}

// Boundaries greedily packs sentence token counts into pages and returns the
// page boundaries: a strictly increasing sequence from 0 to len(counts). Page
// i spans sentences [b[i], b[i+1]). A page closes before a sentence only when
// it already holds at least one sentence and adding it would exceed budget.
func Boundaries(counts []int, budget int) ([]int, error) {
	if budget <= 0 {
		return nil, budgetError(budget)
	}
	bounds := []int{0}
	running := 0
	for i, count := range counts {
		if i > bounds[len(bounds)-1] && running+count > budget {
			bounds = append(bounds, i)
			running = 0
		}
		running += count
	}
	if len(counts) > 0 {
		bounds = append(bounds, len(counts))
	}
	return bounds, nil
}

func budgetError(budget int) error {
	return services.Wrap(services.ErrInvalidBudget, "paginate", "validate", fmt.Sprintf("tokens per page must be positive, got %d", budget), nil)
}
