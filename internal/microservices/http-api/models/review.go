package models

import "time"

// ReviewAuthor is the user reference of a review. Name is filled when resolved.
type ReviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Review struct {
	ID        string       `json:"id"`
	User      ReviewAuthor `json:"user"`
	MessID    string       `json:"mess"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	Photos    []string     `json:"photos"`
	CreatedAt time.Time    `json:"createdAt"`
}
