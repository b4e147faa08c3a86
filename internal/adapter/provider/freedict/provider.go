package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/heartmarshall/lexicon-backend/internal/config"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// Provider fetches dictionary pages from the FreeDictionary API.
type Provider struct {
	client *resty.Client
	log    *slog.Logger
}

// NewProvider creates a Provider for cfg.BaseURL. Requests are not retried;
// callers decide whether a SourceUnavailable failure is worth another attempt.
func NewProvider(cfg config.SourceConfig, logger *slog.Logger) *Provider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Provider{
		client: client,
		log:    logger.With("adapter", "freedict"),
	}
}

// FetchPages returns one entry per part of speech of every API entry, in
// response order. An unknown word (HTTP 404) yields an empty list.
// Transport failures and unexpected responses wrap domain.ErrSourceUnavailable.
func (p *Provider) FetchPages(ctx context.Context, word string) ([]domain.Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return []domain.Entry{}, nil
	}

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/{word}")
	if err != nil {
		p.log.ErrorContext(ctx, "freedict request failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, fmt.Errorf("freedict: request %q: %w: %w", word, domain.ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return []domain.Entry{}, nil
	case resp.StatusCode() != http.StatusOK:
		p.log.ErrorContext(ctx, "freedict unexpected status", slog.String("word", word), slog.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("freedict: unexpected status %d: %w", resp.StatusCode(), domain.ErrSourceUnavailable)
	}

	var entries []apiEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w: %w", domain.ErrSourceUnavailable, err)
	}

	result := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("status", resp.StatusCode()),
		slog.Int("entries", len(result)),
		slog.Duration("elapsed", resp.Time()),
	)

	return result, nil
}

// mapAPIResponse converts the API entries into domain entries. Meanings of one
// API entry sharing a part of speech are folded into a single domain entry.
func mapAPIResponse(entries []apiEntry) []domain.Entry {
	result := make([]domain.Entry, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(e.Word) == "" {
			continue
		}
		ph := pickPhonetics(e)

		byPOS := make(map[string]int)
		for _, m := range e.Meanings {
			idx, ok := byPOS[m.PartOfSpeech]
			if !ok {
				idx = len(result)
				byPOS[m.PartOfSpeech] = idx
				result = append(result, domain.Entry{
					Word:           e.Word,
					PartOfSpeech:   m.PartOfSpeech,
					Phonetic:       ph.ukAudio,
					PhoneticText:   ph.ukText,
					PhoneticAm:     ph.usAudio,
					PhoneticAmText: ph.usText,
				})
			}

			for _, def := range m.Definitions {
				if strings.TrimSpace(def.Definition) == "" {
					continue
				}
				result[idx].Senses = append(result[idx].Senses, mapDefinition(def, m))
			}
		}
	}

	return result
}

func mapDefinition(def apiDefinition, m apiMeaning) domain.Sense {
	sense := domain.Sense{
		Definition: def.Definition,
		Synonyms:   mergeWords(def.Synonyms, m.Synonyms),
		Opposites:  mergeWords(def.Antonyms, m.Antonyms),
	}
	if def.Example != "" {
		sense.Examples = []domain.Example{{Text: def.Example}}
	}
	return sense
}

// mergeWords concatenates word lists, dropping blanks and repeats.
func mergeWords(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		for _, w := range l {
			if w = strings.TrimSpace(w); w != "" && !slices.Contains(out, w) {
				out = append(out, w)
			}
		}
	}
	return out
}

type phonetics struct {
	ukText, ukAudio string
	usText, usAudio string
}

// pickPhonetics chooses British and American pronunciations by the region
// encoded in the audio URL. An untagged transcription fills the British slot.
func pickPhonetics(e apiEntry) phonetics {
	var ph phonetics
	for _, p := range e.Phonetics {
		switch inferRegion(p.Audio) {
		case "US":
			if ph.usAudio == "" {
				ph.usAudio, ph.usText = p.Audio, p.Text
			}
		case "UK":
			if ph.ukAudio == "" {
				ph.ukAudio = p.Audio
				if p.Text != "" {
					ph.ukText = p.Text
				}
			}
		default:
			if ph.ukText == "" {
				ph.ukText = p.Text
			}
		}
	}
	if ph.ukText == "" {
		ph.ukText = e.Phonetic
	}
	return ph
}

// inferRegion attempts to determine the pronunciation region from the audio URL.
func inferRegion(audioURL string) string {
	lower := strings.ToLower(audioURL)
	if strings.Contains(lower, "-us.") || strings.Contains(lower, "-us-") {
		return "US"
	}
	if strings.Contains(lower, "-uk.") || strings.Contains(lower, "-uk-") {
		return "UK"
	}
	return ""
}
