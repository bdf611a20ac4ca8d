package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/repository"
	"yamdb/pkg/errs"
	"yamdb/pkg/notify"
	"yamdb/pkg/token"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Catalog CatalogService
	Title   TitleService
	Review  ReviewService
	Comment CommentService
}

// Mailer queues outgoing messages. notify.Dispatcher satisfies it.
type Mailer interface {
	Enqueue(msg notify.Message) bool
}

// Throttle decides whether a confirmation code may be mailed again.
// cache.SignupThrottle satisfies it, including as a nil pointer.
type Throttle interface {
	Allow(ctx context.Context, username, email string) (bool, error)
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mailer Mailer,
	throttle Throttle,
	log *zap.Logger,
) (*Service, error) {
	codes, err := token.NewCodeGenerator(config.JWT.Secret, time.Duration(config.Code.ExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("confirmation codes: %w", err)
	}
	issuer := token.NewIssuer(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)

	return &Service{
		Auth:    NewAuthService(repo.User, issuer, codes, mailer, throttle, log),
		User:    NewUserService(repo.User, log),
		Catalog: NewCatalogService(repo.Category, repo.Genre, log),
		Title:   NewTitleService(repo, log),
		Review:  NewReviewService(repo, log),
		Comment: NewCommentService(repo, log),
	}, nil
}

func validateRequest(req any) error {
	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		return errs.Validation("validation failed", fields)
	}
	return nil
}

// parseID turns a malformed path id into the not-found error of the resource.
func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
