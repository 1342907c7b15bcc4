package result

import "time"

// SearchResult is one ranked hit as reported by a search engine. URL is
// the deduplication key: two results sharing a URL are the same logical
// hit regardless of title or snippet differences.
type SearchResult struct {
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Snippet       string     `json:"snippet"`
	Position      int        `json:"position"`
	Source        string     `json:"source"`
	Timestamp     time.Time  `json:"timestamp"`
	ExtractedDate *time.Time `json:"extracted_date,omitempty"`
	RecencyScore  float64    `json:"recency_score"`
	Content       string     `json:"content,omitempty"`
	SearchContext string     `json:"search_context,omitempty"`
}

// New builds a SearchResult from raw engine output, stamping the record
// and deriving the extracted date and recency score from the snippet.
func New(title, url, snippet string, position int, source string) SearchResult {
	date := ExtractDate(snippet)
	return SearchResult{
		Title:         title,
		URL:           url,
		Snippet:       snippet,
		Position:      position,
		Source:        source,
		Timestamp:     time.Now(),
		ExtractedDate: date,
		RecencyScore:  RecencyScore(date),
	}
}
