package menu

import (
	"encoding/json"
	"fmt"
	"io"
)

// Entry is one directory row handed to the renderer.
type Entry struct {
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"`
	Plot     string  `json:"plot,omitempty"`
	Poster   string  `json:"poster,omitempty"`
	Fanart   string  `json:"fanart,omitempty"`
	Thumb    string  `json:"thumb,omitempty"`
	Year     int     `json:"year,omitempty"`
	Duration int64   `json:"duration,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Votes    int64   `json:"votes,omitempty"`
	Genres   string  `json:"genres,omitempty"`
	Studios  string  `json:"studios,omitempty"`
	Folder   bool    `json:"folder"`
}

// Renderer is the directory sink. Done must be called exactly once after the
// last Add, with succeeded=false when the build failed partway.
type Renderer interface {
	Add(e Entry) error
	Done(succeeded bool) error
}

// NewRenderer returns the sink for the configured output format.
func NewRenderer(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("menu: unknown render format %q", format)
	}
}

// TextRenderer writes one human-readable line per entry.
type TextRenderer struct {
	w     io.Writer
	count int
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (t *TextRenderer) Add(e Entry) error {
	kind := "item"
	if e.Folder {
		kind = "dir "
	}
	if _, err := fmt.Fprintf(t.w, "%s  %s", kind, e.Title); err != nil {
		return err
	}
	if e.Year > 0 {
		fmt.Fprintf(t.w, " (%d)", e.Year)
	}
	if e.Rating > 0 {
		fmt.Fprintf(t.w, "  %.1f", e.Rating)
	}
	fmt.Fprintln(t.w)
	if e.URL != "" {
		if _, err := fmt.Fprintf(t.w, "      %s\n", e.URL); err != nil {
			return err
		}
	}
	t.count++
	return nil
}

func (t *TextRenderer) Done(succeeded bool) error {
	if !succeeded {
		_, err := fmt.Fprintln(t.w, "-- failed --")
		return err
	}
	_, err := fmt.Fprintf(t.w, "-- %d entries --\n", t.count)
	return err
}

// JSONRenderer buffers entries and emits a single document on Done, so a
// consumer never sees a half-written listing.
type JSONRenderer struct {
	w       io.Writer
	entries []Entry
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

func (j *JSONRenderer) Add(e Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func (j *JSONRenderer) Done(succeeded bool) error {
	doc := struct {
		Succeeded bool    `json:"succeeded"`
		Entries   []Entry `json:"entries"`
	}{Succeeded: succeeded, Entries: j.entries}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
