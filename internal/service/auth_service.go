package service

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/config"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

var errBadCredentials = apierror.E(apierror.InvalidInput, "Credenciales inválidas")

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.repo.FindActiveByRUT(ctx, req.RUT)
	if repository.IsNotFound(err) {
		_ = compareSecret(absentEmployeeHash(), []byte(req.Password))
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := compareSecret([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}

	token, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.UserInfo{ID: emp.ID.String(), Name: emp.FullName(), Role: emp.Role},
	}, nil
}

func (s *authService) generateToken(emp *model.Employee, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   emp.ID.String(),
		"name": emp.FullName(),
		"role": emp.Role,
		"exp":  now.Add(duration).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
