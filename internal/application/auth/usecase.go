package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/pkg/jwt"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y emisión de JWT.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica usuario/contraseña, registra el acceso y devuelve token + usuario.
// Usuario inexistente y contraseña incorrecta responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, identityOf(user), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo registrar last_login")
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User: dto.AuthUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
			TenantID: user.TenantID,
			BranchID: user.BranchID,
		},
	}, nil
}

func identityOf(u *entity.User) jwt.Identity {
	id := jwt.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
	if u.TenantID != nil {
		id.TenantID = *u.TenantID
	}
	if u.BranchID != nil {
		id.BranchID = *u.BranchID
	}
	return id
}
