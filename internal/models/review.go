package models

import "time"

// Review is a single classified movie review. Rows are immutable once
// written; the sentiment column stores whatever label the classifier
// produced, recognized or not.
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Text      string    `json:"text"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"createdAt"`
}

// SentimentCount is one slice of the per-user sentiment distribution.
type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}
