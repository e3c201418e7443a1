package domain

import "time"

// HeadlineSource identifies the publisher of a headline.
type HeadlineSource struct {
	ID   string
	Name string
}

// Headline is an item returned by the external headlines service.
// Headlines are rendered as-is and never stored.
type Headline struct {
	Source      HeadlineSource
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	Content     string
	PublishedAt *time.Time
}
