package captions

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Track is one downloadable rendition of a caption language.
type Track struct {
	URL  string `json:"url"`
	Ext  string `json:"ext"`
	Name string `json:"name,omitempty"`
}

// TrackMap maps language codes to tracks and remembers the order in which
// the provider listed the languages.
type TrackMap struct {
	langs  []string
	tracks map[string][]Track
}

// Add appends tracks for lang, registering lang on first use.
func (m *TrackMap) Add(lang string, tracks ...Track) {
	if m.tracks == nil {
		m.tracks = make(map[string][]Track)
	}
	if _, seen := m.tracks[lang]; !seen {
		m.langs = append(m.langs, lang)
	}
	m.tracks[lang] = append(m.tracks[lang], tracks...)
}

func (m *TrackMap) Len() int {
	return len(m.langs)
}

// Languages returns language codes in provider order.
func (m *TrackMap) Languages() []string {
	return append([]string(nil), m.langs...)
}

func (m *TrackMap) Get(lang string) ([]Track, bool) {
	tracks, ok := m.tracks[lang]
	return tracks, ok
}

// First returns the first listed language.
func (m *TrackMap) First() (string, []Track, bool) {
	if len(m.langs) == 0 {
		return "", nil, false
	}
	lang := m.langs[0]
	return lang, m.tracks[lang], true
}

func (m *TrackMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "track map")
	}
	if tok == nil {
		*m = TrackMap{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("track map: expected object, got %v", tok)
	}

	*m = TrackMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "track map key")
		}
		lang, ok := tok.(string)
		if !ok {
			return errors.Errorf("track map: unexpected key %v", tok)
		}

		var tracks []Track
		if err := dec.Decode(&tracks); err != nil {
			return errors.Wrapf(err, "track map language %q", lang)
		}
		m.Add(lang, tracks...)
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "track map end")
	}
	return nil
}

// VideoInfo is the subset of provider metadata this service reads.
type VideoInfo struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Duration          float64  `json:"duration"`
	Subtitles         TrackMap `json:"subtitles"`
	AutomaticCaptions TrackMap `json:"automatic_captions"`
}

// Document is a json3 caption payload.
type Document struct {
	Events []Event `json:"events"`
}

type Event struct {
	StartMs    int64     `json:"tStartMs"`
	DurationMs int64     `json:"dDurationMs"`
	Segs       []Segment `json:"segs"`
}

// Segment text is a pointer so a missing utf8 field can be told apart from
// an empty one.
type Segment struct {
	UTF8 *string `json:"utf8"`
}
