package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/errs"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// GetAllUsers lists every user for administrators and only the caller
	// for everyone else.
	GetAllUsers(ctx context.Context, p access.Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, p access.Principal, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, p access.Principal, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, p access.Principal, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, p access.Principal, username string) error

	GetProfile(ctx context.Context, p access.Principal) (*response.UserResponse, error)
	// UpdateProfile never changes the caller's role.
	UpdateProfile(ctx context.Context, p access.Principal, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, p access.Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := requireAccess(p, access.OpRead, access.ClassIdentity); err != nil {
		return nil, err
	}

	limit, offset := req.PageLimit(), req.PageOffset()

	if !p.Has(access.CapManageUsers) {
		self, err := us.userRepo.FindByID(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("find user %s: %w", p.UserID, err)
		}
		var users []response.UserResponse
		if self != nil && offset == 0 && matchesSearch(self.Username, req.Search) {
			users = append(users, response.UserToResponse(self))
		}
		return response.NewPaginatedResponse(users, limit, offset, int64(len(users))), nil
	}

	users, err := us.userRepo.FindAll(ctx, req.Search, limit, offset)
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err), zap.String("search", req.Search))
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, limit, offset, total), nil
}

func matchesSearch(username, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(username), strings.ToLower(search))
}

func (us *userService) CreateUser(ctx context.Context, p access.Principal, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassIdentity); err != nil {
		return nil, err
	}
	if utils.IsReservedUsername(req.Username) {
		return nil, errs.ErrReservedUsername
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.Role(req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		Bio:       req.Bio,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("by", p.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

// findVisible loads a user by name. Users the caller may not see are
// reported as missing.
func (us *userService) findVisible(ctx context.Context, p access.Principal, op access.Operation, username string) (*entity.User, error) {
	if err := requireAccess(p, op, access.ClassIdentity); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	if user == nil || !access.CanAccessInstance(p, op, access.Identity(user)) {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

func (us *userService) GetUser(ctx context.Context, p access.Principal, username string) (*response.UserResponse, error) {
	user, err := us.findVisible(ctx, p, access.OpRead, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, p access.Principal, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	user, err := us.findVisible(ctx, p, access.OpUpdate, username)
	if err != nil {
		return nil, err
	}

	var role *entity.Role
	if req.Role != nil {
		r := entity.Role(*req.Role)
		role = access.FilterSelfUpdate(p, &r)
	}

	return us.applyUpdate(ctx, p, user, req, role)
}

func (us *userService) DeleteUser(ctx context.Context, p access.Principal, username string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassIdentity); err != nil {
		return err
	}

	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find user %s: %w", username, err)
	}
	if user == nil {
		return errs.ErrUserNotFound
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		return err
	}

	us.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("by", p.Username),
	)
	return nil
}

func (us *userService) GetProfile(ctx context.Context, p access.Principal) (*response.UserResponse, error) {
	user, err := us.self(ctx, p, access.OpRead)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, p access.Principal, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	user, err := us.self(ctx, p, access.OpUpdate)
	if err != nil {
		return nil, err
	}

	return us.applyUpdate(ctx, p, user, req, nil)
}

func (us *userService) self(ctx context.Context, p access.Principal, op access.Operation) (*entity.User, error) {
	if err := requireAccess(p, op, access.ClassIdentity); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", p.UserID, err)
	}
	if user == nil {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

// applyUpdate patches user. role is applied only when non-nil, callers pass
// it through access.FilterSelfUpdate first.
func (us *userService) applyUpdate(ctx context.Context, p access.Principal, user *entity.User, req *request.UpdateUserRequest, role *entity.Role) (*response.UserResponse, error) {
	if req.Username != nil && utils.IsReservedUsername(*req.Username) {
		return nil, errs.ErrReservedUsername
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if role != nil {
		user.Role = *role
	} else if req.Role != nil {
		us.log.Info("Role change ignored",
			zap.String("user_id", user.ID.String()),
			zap.String("by", p.Username),
		)
	}
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
