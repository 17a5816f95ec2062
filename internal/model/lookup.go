package model

// Field is one label/value pair read from an infobox row
type Field struct {
	Label string `json:"label"` // Text of the row's first header cell
	Value string `json:"value"` // Text of the row's first data cell
}

// Lookup is the outcome of resolving one query against Wikipedia
type Lookup struct {
	Query    string    `json:"query"`     // Input as typed
	Title    string    `json:"title"`     // Canonical article title (e.g., "United_States")
	URL      string    `json:"url"`       // Article URL that was requested
	FinalURL string    `json:"final_url"` // URL after redirects
	Meta     FetchMeta `json:"fetch_meta"`
	Fields   []Field   `json:"fields"`
}

// FetchMeta contains HTTP metadata from fetching the article
type FetchMeta struct {
	StatusCode   int    `json:"status_code"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// Found reports whether the article request returned a 2xx status
func (l *Lookup) Found() bool {
	return l.Meta.StatusCode >= 200 && l.Meta.StatusCode < 300
}
