package entity

import "github.com/google/uuid"

type Comment struct {
	BaseSimple
	ReviewID uuid.UUID `db:"review_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Author   string    `db:"author_username"` // filled on reads
	Text     string    `db:"text"`
}
