package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	Image    string `json:"image" form:"image" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ProfileInput struct {
	Name  string `json:"name" form:"name" validate:"required,min=2,max=80"`
	Image string `json:"image" form:"image" validate:"omitempty,url"`
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// IdentityOf builds the request identity of a loaded user.
func IdentityOf(u *models.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Image = strings.TrimSpace(in.Image)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, utils.NewAppError(utils.ErrConflict, "Email already registered", nil)
	} else if !utils.IsErrorCode(err, utils.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInternal, "Failed to hash password", err)
	}
	image := in.Image
	if image == "" {
		image = utils.DefaultAvatarURL(in.Name)
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Image:    image,
		Role:     models.RoleMember,
		IsActive: true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to create account", err)
	}
	return u, nil
}

// Authenticate checks credentials. Wrong email and wrong password produce the
// same error.
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	invalid := utils.NewAppError(utils.ErrUnauthenticated, "Invalid email or password", nil)
	u, err := s.users.GetUserByEmail(ctx, in.Email)
	if utils.IsErrorCode(err, utils.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, u.Password) {
		return nil, invalid
	}
	if !u.IsActive {
		return nil, utils.NewForbiddenError("your account has been deactivated")
	}
	return u, nil
}

// Load returns an active user by id, used by the session middleware.
func (s *UserService) Load(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, utils.NewForbiddenError("account deactivated")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id *Identity, in ProfileInput) error {
	if id == nil {
		return utils.NewUnauthenticatedError()
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)
	if err := validateStruct(in); err != nil {
		return err
	}
	return s.users.UpdateProfile(ctx, id.UserID, in.Name, in.Image)
}

func (s *UserService) List(ctx context.Context, id *Identity, f UserFilter) ([]models.User, int64, error) {
	if !Can(id, ManageUsers, "") {
		return nil, 0, utils.NewForbiddenError("admin only")
	}
	return s.users.ListUsers(ctx, f)
}

func (s *UserService) ChangeRole(ctx context.Context, id *Identity, userID string, role models.Role) error {
	if err := s.checkTarget(id, userID); err != nil {
		return err
	}
	if !role.Valid() {
		return utils.NewValidationError("Role must be ADMIN or MEMBER")
	}
	if err := s.users.UpdateUserRole(ctx, userID, role); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": userID, "role": role, "admin_id": id.UserID}).Info("user role changed")
	return nil
}

func (s *UserService) SetActive(ctx context.Context, id *Identity, userID string, active bool) error {
	if err := s.checkTarget(id, userID); err != nil {
		return err
	}
	return s.users.SetUserActive(ctx, userID, active)
}

func (s *UserService) Delete(ctx context.Context, id *Identity, userID string) error {
	if err := s.checkTarget(id, userID); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": userID, "admin_id": id.UserID}).Info("user deleted")
	return nil
}

// checkTarget guards admin actions on accounts; admins cannot act on themselves.
func (s *UserService) checkTarget(id *Identity, userID string) error {
	if !Can(id, ManageUsers, "") {
		return utils.NewForbiddenError("admin only")
	}
	if id.UserID == userID {
		return utils.NewValidationError("You cannot change your own account here")
	}
	return nil
}

// EnsureAdmin creates or promotes the bootstrap admin account.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		if u.Role == models.RoleAdmin {
			return nil
		}
		return s.users.UpdateUserRole(ctx, u.ID, models.RoleAdmin)
	}
	if !utils.IsErrorCode(err, utils.ErrNotFound) {
		return err
	}

	created, err := s.Register(ctx, RegisterInput{Name: "Admin", Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.users.UpdateUserRole(ctx, created.ID, models.RoleAdmin)
}
