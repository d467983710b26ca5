package model

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Field limits for task validation.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
)

// Validation errors.
var (
	ErrTitleRequired      = errors.New("title must not be empty")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// Task represents a single todo item owned by exactly one user.
// UserID is set at creation and never changes.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Validate checks the patch fields that are present.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := ValidateDescription(*p.Description); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTitle enforces the 1..MaxTitleLength bound.
// Lengths are counted in runes to match the API contract, not bytes.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDescription enforces the MaxDescriptionLength bound.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
