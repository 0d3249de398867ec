package handler

import (
	"fmt"
	"strings"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/deppfellow/storefront/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	MsgUserRegistered = "User registered successfully"
	MsgUserCreated    = "User created successfully by admin"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

// CreateUserRequest is the admin form; the role value itself is checked by
// the service.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required"`
}

func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

type UpdateRoleRequest struct {
	IDParam
	Role string `json:"role" validate:"required"`
}

func (r *UpdateRoleRequest) Validate() error {
	return validation.Struct(r)
}

// UserResponse pairs a confirmation with the affected user.
type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// AuthHandler serves registration, login and the admin user endpoints.
type AuthHandler struct {
	Handler
	auth  *service.AuthService
	users *service.UserService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
		users:   users,
	}
}

func (h *AuthHandler) Register(c echo.Context, req *RegisterRequest) (*MessageResponse, error) {
	if _, err := h.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: MsgUserRegistered}, nil
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*service.LoginResult, error) {
	return h.auth.Login(c.Request().Context(), req.Email, req.Password)
}

func (h *AuthHandler) CreateUser(c echo.Context, req *CreateUserRequest) (*UserResponse, error) {
	user, err := h.users.CreateUser(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Message: MsgUserCreated, User: user}, nil
}

func (h *AuthHandler) UpdateRole(c echo.Context, req *UpdateRoleRequest) (*UserResponse, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}

	user, err := h.users.UpdateRole(c.Request().Context(), actor, req.UUID(), req.Role)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Message: fmt.Sprintf("User role updated to %s", user.Role), User: user}, nil
}

func (h *AuthHandler) Profile(c echo.Context, _ *EmptyRequest) (*model.Profile, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}
	return h.users.GetProfile(c.Request().Context(), actor)
}
