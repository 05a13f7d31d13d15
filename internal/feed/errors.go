package feed

import "fmt"

// Fetch failures are typed so callers can map them to transport responses or
// user-facing retry prompts. Every failure is terminal for that single fetch:
// no partial article batches are ever returned.

// TimeoutError reports that the feed request exceeded its deadline.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("feed request timed out: %s", e.URL)
}

// NetworkError reports a transport-level failure (DNS, refused connection).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FetchFailedError reports a non-success HTTP status from the conversion API.
type FetchFailedError struct {
	URL    string
	Status int
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("failed to fetch feed (%d): %s", e.Status, e.URL)
}

// ParseError reports that the conversion API responded but could not parse
// the feed, or returned an undecodable payload.
type ParseError struct {
	URL     string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.URL)
}

const defaultParseMessage = "failed to parse feed"
