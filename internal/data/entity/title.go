package entity

import "github.com/google/uuid"

// MinTitleYear is the earliest accepted release year.
const MinTitleYear = 1000

type Title struct {
	BaseNoDelete
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description *string    `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"` // nulled when the category is removed
}
