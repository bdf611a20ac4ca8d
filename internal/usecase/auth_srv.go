package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/metrics"
	"yamdb/pkg/errs"
	"yamdb/pkg/notify"
	"yamdb/pkg/token"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
	// Authenticate resolves a bearer token to the principal of its user.
	Authenticate(ctx context.Context, raw string) (access.Principal, error)
}

type authService struct {
	users    repository.UserRepository
	issuer   *token.Issuer
	codes    *token.CodeGenerator
	mailer   Mailer
	throttle Throttle
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	issuer *token.Issuer,
	codes *token.CodeGenerator,
	mailer Mailer,
	throttle Throttle,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		issuer:   issuer,
		codes:    codes,
		mailer:   mailer,
		throttle: throttle,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate input
	if utils.IsReservedUsername(req.Username) {
		return nil, errs.ErrReservedUsername
	}
	if err := validateRequest(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Same pair again means the user lost the code
	byName, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username %s: %w", req.Username, err)
	}
	byEmail, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email %s: %w", req.Email, err)
	}

	if byName != nil && byEmail != nil && byName.ID == byEmail.ID {
		s.sendCode(ctx, byName, "resent")
		return &response.SignupResponse{Username: byName.Username, Email: byName.Email}, nil
	}
	if byName != nil {
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, errs.ErrUsernameTaken
	}
	if byEmail != nil {
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, errs.ErrEmailTaken
	}

	// 3. Create the user
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errs.KindOf(err) == errs.KindConflict {
			// lost a race with another signup
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("create user %s: %w", req.Username, err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	// 4. Send the code without waiting for delivery
	s.sendCode(ctx, user, "created")

	return &response.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) sendCode(ctx context.Context, user *entity.User, result string) {
	allowed, err := s.throttle.Allow(ctx, user.Username, user.Email)
	if err != nil {
		s.log.Warn("Signup throttle unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		metrics.SignupsTotal.WithLabelValues("throttled").Inc()
		s.log.Info("Confirmation code throttled", zap.String("username", user.Username))
		return
	}

	metrics.SignupsTotal.WithLabelValues(result).Inc()
	code := s.codes.Generate(user, s.now())
	if !s.mailer.Enqueue(notify.ConfirmationMessage(user.Email, user.Username, code)) {
		s.log.Warn("Confirmation code not queued", zap.String("username", user.Username))
	}
}

func (s *authService) IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", req.Username, err)
	}
	if user == nil {
		return nil, errs.ErrUserNotFound
	}

	now := s.now()
	if !s.codes.Verify(user, req.ConfirmationCode, now) {
		metrics.TokenRejectionsTotal.Inc()
		s.log.Warn("Invalid confirmation code", zap.String("username", user.Username))
		return nil, errs.ErrInvalidCode
	}

	// Moving last_login_at changes the code's MAC input, which consumes it.
	at := now.UTC().Truncate(time.Microsecond)
	ok, err := s.users.MarkLoggedIn(ctx, user.ID, user.LastLoginAt, at)
	if err != nil {
		return nil, fmt.Errorf("mark %s logged in: %w", user.Username, err)
	}
	if !ok {
		metrics.TokenRejectionsTotal.Inc()
		s.log.Warn("Confirmation code already used", zap.String("username", user.Username))
		return nil, errs.ErrInvalidCode
	}
	user.LastLoginAt = &at

	signed, err := s.issuer.Issue(user, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.Inc()

	s.log.Info("Token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return &response.TokenResponse{Access: signed}, nil
}

func (s *authService) Authenticate(ctx context.Context, raw string) (access.Principal, error) {
	claims, err := s.issuer.Parse(raw)
	if err != nil {
		return access.Anonymous(), err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return access.Anonymous(), errs.ErrInvalidToken
	}

	// the stored role wins over the claim so demotions apply at once
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return access.Anonymous(), fmt.Errorf("load token user: %w", err)
	}
	if user == nil {
		return access.Anonymous(), errs.ErrInvalidToken
	}

	return access.FromUser(user), nil
}
