package book

import (
	"booksapi/internal/calendar"
)

// Book is a persisted bibliographic record. PublishedDate is always
// Gregorian.
type Book struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	PublishedDate calendar.Date `json:"publishedDate"`
}

// Submission is an incoming book as sent by clients. PublishedDate carries a
// Buddhist Era year.
type Submission struct {
	Title         string `json:"title" validate:"notblank,max=255"`
	Author        string `json:"author" validate:"notblank,max=255"`
	PublishedDate string `json:"publishedDate" validate:"notblank,bedate"`
}

// ValidatedBook is a submission that passed validation, with its date
// already converted.
type ValidatedBook struct {
	Title         string
	Author        string
	PublishedDate calendar.Date
}

// Book returns an unsaved record for the validated submission.
func (v ValidatedBook) Book() *Book {
	return &Book{
		Title:         v.Title,
		Author:        v.Author,
		PublishedDate: v.PublishedDate,
	}
}

// Created is the response body for a stored submission.
type Created struct {
	ID int64 `json:"id"`
}
