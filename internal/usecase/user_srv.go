package usecase

import (
	"context"
	"errors"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/internal/permission"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	Create(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	Retrieve(ctx context.Context, actor permission.Actor, identifier string) (*response.UserResponse, error)
	PartialUpdate(ctx context.Context, actor permission.Actor, identifier string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	Destroy(ctx context.Context, actor permission.Actor, identifier string) error
}

type userService struct {
	userRepo repository.UserRepository
	config   *utils.Config
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		config:   config,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get users", err)
	}

	total, err := us.userRepo.CountAll(ctx, search)
	if err != nil {
		return nil, apperror.Internal("count users", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.CurrentPage(), req.Limit(), total), nil
}

// Create is the admin path; the account gets its own confirmation code but no email.
func (us *userService) Create(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	msgs := us.config.Messages

	if entity.IsReservedUsername(req.Username) {
		return nil, apperror.FieldError("username", msgs.UsernameReserved)
	}
	if err := validationError(req, us.config.Messages); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != nil {
		role = entity.UserRole(*req.Role)
		if !role.Valid() {
			return nil, apperror.FieldError("role", msgs.WrongRole)
		}
	}

	if err := us.checkUnique(ctx, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	code, err := utils.GenerateConfirmationCode(us.config.Confirmation.CodeLength)
	if err != nil {
		return nil, apperror.Internal("generate confirmation code", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Bio:              req.Bio,
		Role:             role,
		ConfirmationCode: code,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.FieldError("username", msgs.UsernameTaken)
		}
		return nil, apperror.Internal("create user", err)
	}

	us.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) Retrieve(ctx context.Context, actor permission.Actor, identifier string) (*response.UserResponse, error) {
	user, err := us.resolve(ctx, actor, identifier)
	if err != nil {
		return nil, err
	}

	if err := permission.SelfOrAdmin(actor, permission.ActionRetrieve, user.ID).Err(us.config.Messages); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// PartialUpdate merges the given fields. A valid role from a non-admin is
// dropped silently; an invalid role is rejected for everyone.
func (us *userService) PartialUpdate(ctx context.Context, actor permission.Actor, identifier string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	msgs := us.config.Messages

	user, err := us.resolve(ctx, actor, identifier)
	if err != nil {
		return nil, err
	}

	if err := permission.SelfOrAdmin(actor, permission.ActionUpdate, user.ID).Err(msgs); err != nil {
		return nil, err
	}

	if req.Role != nil && !entity.UserRole(*req.Role).Valid() {
		return nil, apperror.FieldError("role", msgs.WrongRole)
	}
	if req.Username != nil && entity.IsReservedUsername(*req.Username) {
		return nil, apperror.FieldError("username", msgs.UsernameReserved)
	}
	if err := validationError(req, us.config.Messages); err != nil {
		return nil, err
	}

	username, email := user.Username, user.Email
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := us.checkUnique(ctx, user.ID, username, email); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Role != nil {
		if permission.IsAdmin(actor) {
			user.Role = entity.UserRole(*req.Role)
		} else {
			us.log.Info("Role change ignored for non-admin",
				zap.String("actor_id", actor.ID.String()),
				zap.String("requested_role", *req.Role),
			)
		}
	}
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.FieldError("username", msgs.UsernameTaken)
		}
		return nil, notFoundOr(err, msgs, "update user")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// Destroy never removes the caller's own account, whichever way it is named.
func (us *userService) Destroy(ctx context.Context, actor permission.Actor, identifier string) error {
	msgs := us.config.Messages

	if !actor.Authenticated {
		return apperror.Authentication(msgs.AuthenticationNeeded)
	}
	if identifier == entity.SelfAlias || identifier == actor.Username {
		return apperror.MethodNotAllowed(msgs.NoDeleteYourself)
	}

	user, err := us.resolve(ctx, actor, identifier)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return apperror.MethodNotAllowed(msgs.NoDeleteYourself)
	}

	if err := permission.SelfOrAdmin(actor, permission.ActionDelete, user.ID).Err(msgs); err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		return notFoundOr(err, msgs, "delete user")
	}

	us.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

// resolve maps "me" or a username to a record. A missing record is reported
// as 404 to admins and as 403 to everyone else so usernames cannot be enumerated.
func (us *userService) resolve(ctx context.Context, actor permission.Actor, identifier string) (*entity.User, error) {
	msgs := us.config.Messages

	if !actor.Authenticated {
		return nil, apperror.Authentication(msgs.AuthenticationNeeded)
	}

	var (
		user *entity.User
		err  error
	)
	if identifier == entity.SelfAlias {
		user, err = us.userRepo.FindByID(ctx, actor.ID)
	} else {
		user, err = us.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}

	if user == nil {
		if permission.IsAdmin(actor) || identifier == entity.SelfAlias {
			return nil, apperror.NotFound(msgs.NotFound)
		}
		return nil, apperror.Authorization(msgs.PermissionDenied)
	}

	return user, nil
}

// checkUnique rejects a username or email held by a record other than selfID.
func (us *userService) checkUnique(ctx context.Context, selfID uuid.UUID, username, email string) error {
	msgs := us.config.Messages
	fields := map[string]string{}

	byUsername, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return apperror.Internal("check username", err)
	}
	if byUsername != nil && byUsername.ID != selfID {
		fields["username"] = msgs.UsernameTaken
	}

	byEmail, err := us.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return apperror.Internal("check email", err)
	}
	if byEmail != nil && byEmail.ID != selfID {
		fields["email"] = msgs.EmailTaken
	}

	if len(fields) > 0 {
		return apperror.Validation(msgs.ValidationFailed, fields)
	}
	return nil
}
