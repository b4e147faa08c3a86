package importer

// KeyError records a failure attributed to one canonical key (or, for items
// that could not be decoded, to their position in the input).
type KeyError struct {
	Key     string `json:"key"`
	Message string `json:"error"`
}

// FileError records a file that could not be imported at all.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"error"`
}

// BatchResult summarises one batch. A non-empty Errors list does not imply
// zero progress: the counters reflect every key that did succeed.
type BatchResult struct {
	// TotalWords is the number of raw entries received.
	TotalWords int `json:"total_words"`
	// GroupedWords is the number of distinct canonical keys among them.
	GroupedWords int `json:"grouped_words"`
	// Imported counts keys that were created or gained at least one entry.
	Imported int `json:"imported"`
	// Unchanged counts keys whose every incoming surface word was already stored.
	Unchanged int `json:"unchanged"`
	// Skipped counts raw entries without a usable word.
	Skipped int        `json:"skipped"`
	Errors  []KeyError `json:"errors"`
}

// MultiResult aggregates the batches of a directory import.
type MultiResult struct {
	Files        int         `json:"files"`
	TotalWords   int         `json:"total_words"`
	GroupedWords int         `json:"grouped_words"`
	Imported     int         `json:"imported"`
	Unchanged    int         `json:"unchanged"`
	Skipped      int         `json:"skipped"`
	Errors       []KeyError  `json:"errors"`
	FileErrors   []FileError `json:"file_errors"`
}

func (m *MultiResult) add(r BatchResult) {
	m.Files++
	m.TotalWords += r.TotalWords
	m.GroupedWords += r.GroupedWords
	m.Imported += r.Imported
	m.Unchanged += r.Unchanged
	m.Skipped += r.Skipped
	m.Errors = append(m.Errors, r.Errors...)
}

func newBatchResult(total int) BatchResult {
	return BatchResult{TotalWords: total, Errors: []KeyError{}}
}

func newMultiResult() MultiResult {
	return MultiResult{Errors: []KeyError{}, FileErrors: []FileError{}}
}
