package domain

// ListFilter narrows ListAll results. Zero values mean "no filter".
type ListFilter struct {
	// Prefix is a left-anchored match on the canonical key.
	Prefix string

	// PartsOfSpeech matches documents whose parts-of-speech set equals this one exactly.
	PartsOfSpeech []string

	// Symbol matches the document symbol; SymbolOther matches any unknown symbol.
	Symbol string
}

// Page is a 1-based page request.
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the number of items preceding the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}
