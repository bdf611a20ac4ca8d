package repository

import (
	"yamdb/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Category CategoryRepository
	Genre    GenreRepository
	Title    TitleRepository
	Review   ReviewRepository
	Comment  CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Category: NewCategoryRepository(db, log),
		Genre:    NewGenreRepository(db, log),
		Title:    NewTitleRepository(db, log),
		Review:   NewReviewRepository(db, log),
		Comment:  NewCommentRepository(db, log),
	}
}
