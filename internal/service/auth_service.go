package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/repository"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found") // Though Login groups this with InvalidCredentials
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotApproved        = errors.New("organizer account is awaiting admin approval")
	ErrInvalidRole        = errors.New("invalid role for registration")
)

// RegisterRequest carries the fields needed to create an account
type RegisterRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	Role         string  `json:"role" binding:"omitempty,oneof=user organizer"`
	Organization *string `json:"organization"`
	Phone        *string `json:"phone"`
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new user account. Regular users are approved right away;
// organizers stay unapproved until an admin approves them in the back-office.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := req.Role
	if userRole == "" {
		userRole = model.RoleUser // Default role
	}
	if userRole != model.RoleUser && userRole != model.RoleOrganizer {
		return nil, "", ErrInvalidRole
	}
	approved := userRole == model.RoleUser

	// Check for initial admin setup via environment variable
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && req.Email == initialAdminEmail {
		userRole = model.RoleAdmin
		approved = true
		log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_EMAIL.", req.Email)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Organization: req.Organization,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         userRole,
		Approved:     approved,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %s) created, but failed to generate token: %v", user.Email, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	if user.Role == model.RoleOrganizer && !user.Approved {
		return nil, "", ErrNotApproved
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
