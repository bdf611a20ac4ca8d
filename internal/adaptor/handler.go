package adaptor

import (
	"yamdb/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Catalog *CatalogHandler
	Title   *TitleHandler
	Review  *ReviewHandler
	Comment *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
		Title:   NewTitleHandler(service.Title, log),
		Review:  NewReviewHandler(service.Review, log),
		Comment: NewCommentHandler(service.Comment, log),
	}
}
