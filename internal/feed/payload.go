package feed

// Wire shapes for the feed-to-JSON conversion API. Items are loosely typed at
// the source; every field is optional and normalization supplies fallbacks.

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Feed    apiFeed   `json:"feed"`
	Items   []apiItem `json:"items"`
}

type apiFeed struct {
	Title string `json:"title"`
}

type apiItem struct {
	Title       string       `json:"title"`
	Link        string       `json:"link"`
	GUID        string       `json:"guid"`
	Author      string       `json:"author"`
	PubDate     string       `json:"pubDate"`
	Content     string       `json:"content"`
	Description string       `json:"description"`
	Thumbnail   string       `json:"thumbnail"`
	Enclosure   apiEnclosure `json:"enclosure"`
	Categories  []string     `json:"categories"`
}

type apiEnclosure struct {
	Link string `json:"link"`
	Type string `json:"type"`
}
