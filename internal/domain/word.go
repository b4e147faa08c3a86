package domain

import "time"

// WordDocument is the single canonical document stored per distinct canonical key.
// Variants, Symbol and PartsOfSpeech are caches derived from Entries (see Summarize).
type WordDocument struct {
	Key           string    `json:"key"`
	Entries       []Entry   `json:"entries"`
	Variants      []string  `json:"variants"`
	Symbol        string    `json:"symbol"`
	PartsOfSpeech []string  `json:"parts_of_speech"`
	Root          RootLink  `json:"root"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Children is filled only by list expansion.
	Children []WordDocument `json:"children,omitempty"`
}

// SurfaceWords returns the set of surface words already present in the document.
func (d *WordDocument) SurfaceWords() map[string]struct{} {
	words := make(map[string]struct{}, len(d.Entries))
	for _, e := range d.Entries {
		words[e.Word] = struct{}{}
	}
	return words
}

// Entry is one imported or crawled dictionary record for a surface word form.
type Entry struct {
	ID                string             `json:"id,omitempty"              yaml:"id,omitempty"`
	Word              string             `json:"word"                      yaml:"word"`
	PartOfSpeech      string             `json:"part_of_speech,omitempty"  yaml:"part_of_speech,omitempty"`
	Symbol            string             `json:"symbol,omitempty"          yaml:"symbol,omitempty"`
	Phonetic          string             `json:"phonetic,omitempty"        yaml:"phonetic,omitempty"`
	PhoneticText      string             `json:"phonetic_text,omitempty"   yaml:"phonetic_text,omitempty"`
	PhoneticAm        string             `json:"phonetic_am,omitempty"     yaml:"phonetic_am,omitempty"`
	PhoneticAmText    string             `json:"phonetic_am_text,omitempty" yaml:"phonetic_am_text,omitempty"`
	IsTranslated      bool               `json:"is_translated"             yaml:"is_translated"`
	Senses            []Sense            `json:"senses,omitempty"          yaml:"senses,omitempty"`
	Idioms            []Idiom            `json:"idioms,omitempty"          yaml:"idioms,omitempty"`
	PhrasalVerbSenses []PhrasalVerbGroup `json:"phrasal_verb_senses"       yaml:"phrasal_verb_senses"`
	PhrasalVerbs      []string           `json:"phrasal_verbs,omitempty"   yaml:"phrasal_verbs,omitempty"`
}

// Sense is a single meaning of an entry, idiom or phrasal verb.
type Sense struct {
	ID                        string    `json:"id,omitempty"                          yaml:"id,omitempty"`
	Definition                string    `json:"definition"                            yaml:"definition"`
	DefinitionTranslated      *string   `json:"definition_translated,omitempty"       yaml:"definition_translated,omitempty"`
	DefinitionTranslatedShort *string   `json:"definition_translated_short,omitempty" yaml:"definition_translated_short,omitempty"`
	Labels                    []string  `json:"labels,omitempty"                      yaml:"labels,omitempty"`
	Synonyms                  []string  `json:"synonyms,omitempty"                    yaml:"synonyms,omitempty"`
	Opposites                 []string  `json:"opposites,omitempty"                   yaml:"opposites,omitempty"`
	SeeAlsos                  []string  `json:"see_alsos,omitempty"                   yaml:"see_alsos,omitempty"`
	Examples                  []Example `json:"examples,omitempty"                    yaml:"examples,omitempty"`
}

// Idiom is a fixed expression listed under an entry, with its own senses.
type Idiom struct {
	ID     string  `json:"id,omitempty"     yaml:"id,omitempty"`
	Word   string  `json:"word"             yaml:"word"`
	Senses []Sense `json:"senses,omitempty" yaml:"senses,omitempty"`
}

// PhrasalVerbGroup groups the senses of one phrasal verb built on the entry word.
type PhrasalVerbGroup struct {
	ID     string  `json:"id,omitempty"     yaml:"id,omitempty"`
	Word   string  `json:"word"             yaml:"word"`
	Senses []Sense `json:"senses,omitempty" yaml:"senses,omitempty"`
}

// Example is a usage sentence. Translated stays nil until filled in.
type Example struct {
	ID         string   `json:"id,omitempty"         yaml:"id,omitempty"`
	Text       string   `json:"text"                 yaml:"text"`
	Translated *string  `json:"translated,omitempty" yaml:"translated,omitempty"`
	Labels     []string `json:"labels,omitempty"     yaml:"labels,omitempty"`
}

// IdiomHit is one idiom-level search result.
type IdiomHit struct {
	DocumentKey  string `json:"document_key"`
	Word         string `json:"word"`
	PartOfSpeech string `json:"part_of_speech"`
}

// MergedWord is the full replacement state written by an upsert: the merged
// entry list and the summary recomputed over it.
type MergedWord struct {
	Key     string
	Entries []Entry
	Summary Summary
}

// NewMergedWord recomputes the summary over entries.
func NewMergedWord(key string, entries []Entry) MergedWord {
	return MergedWord{Key: key, Entries: entries, Summary: Summarize(entries)}
}
