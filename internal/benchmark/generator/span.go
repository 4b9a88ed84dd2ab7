package generator

import "fmt"

// Span resolves the requested page bounds against a document of total pages.
//
// It returns 0-based first and last indexes (inclusive). ok is false when the
// document has no pages, in which case the caller renders nothing. A LastPage
// past the end is clamped; a FirstPage past the end or after LastPage yields
// an ErrUnsupportedOption error.
func (r *RenderRequest) Span(t Type, total int) (first, last int, ok bool, err error) {
	if r.FirstPage < 0 || r.LastPage < 0 {
		return 0, 0, false, NewRenderError(t, ErrUnsupportedOption,
			fmt.Errorf("negative page bound %d-%d", r.FirstPage, r.LastPage))
	}
	if total <= 0 {
		return 0, 0, false, nil
	}

	first = 1
	if r.FirstPage > 0 {
		first = r.FirstPage
	}
	last = total
	if r.LastPage > 0 && r.LastPage < total {
		last = r.LastPage
	}

	if first > total {
		return 0, 0, false, NewRenderError(t, ErrUnsupportedOption,
			fmt.Errorf("first page %d is past the end of a %d page document", first, total))
	}
	if first > last {
		return 0, 0, false, NewRenderError(t, ErrUnsupportedOption,
			fmt.Errorf("first page %d is after last page %d", first, last))
	}

	return first - 1, last - 1, true, nil
}

// ExpectedPages returns how many pages a document of total pages should yield
// for this request, or -1 when the span is invalid.
func (r *RenderRequest) ExpectedPages(total int) int {
	first, last, ok, err := r.Span("", total)
	if err != nil {
		return -1
	}
	if !ok {
		return 0
	}
	return last - first + 1
}
