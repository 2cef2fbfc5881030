package service

import (
	"context"
	"errors"
	"time"

	"actalibro/internal/config"
	"actalibro/internal/dto"
	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SesionStore is the revocable session registry (Redis-backed in production).
// Every issued token has a jti registered here; revoking the jti kills the
// session even though the JWT signature stays valid.
type SesionStore interface {
	Create(ctx context.Context, jti, usuarioID string, ttl time.Duration) error
	Revoke(ctx context.Context, jti string) error
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string) error
	CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error
}

type authService struct {
	usuarios repository.UsuarioRepository
	acceso   AccesoService
	sesiones SesionStore
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, acceso AccesoService, sesiones SesionStore, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, acceso: acceso, sesiones: sesiones, cfg: cfg}
}

// Login authenticates by DNI and password, then reports the barrios the user
// may work in. A user with no reachable barrio cannot log in at all.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.usuarios.FindByDNI(ctx, req.DNI)
	if err != nil {
		return nil, errors.New("DNI o contraseña incorrectos")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("DNI o contraseña incorrectos")
	}

	barrios, err := s.acceso.BarriosDeUsuario(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(barrios) == 0 {
		return nil, errors.New("no tenés ningún barrio o puesto asignado")
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	jti := uuid.NewString()
	token, err := s.generateToken(user, jti, ttl)
	if err != nil {
		return nil, err
	}
	if err := s.sesiones.Create(ctx, jti, user.ID.String(), ttl); err != nil {
		return nil, err
	}

	barriosResp := make([]dto.BarrioResponse, len(barrios))
	for i, b := range barrios {
		barriosResp[i] = dto.BarrioResponse{ID: b.ID.String(), Nombre: b.Nombre, Zona: b.Zona}
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        UsuarioToResponse(user),
		Barrios:     barriosResp,
	}, nil
}

// Logout revokes the current session; the token is dead from the next request on.
func (s *authService) Logout(ctx context.Context, jti string) error {
	return s.sesiones.Revoke(ctx, jti)
}

func (s *authService) CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error {
	user, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return errors.New("usuario no encontrado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return errors.New("la contraseña actual no es correcta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.usuarios.Update(ctx, user)
}

func (s *authService) generateToken(user *model.Usuario, jti string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"dni":     user.DNI,
		"rol":     string(user.Rol),
		"jti":     jti,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// UsuarioToResponse maps a model user (with preloaded grants) to its DTO.
func UsuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	var barrioAdmin *string
	if u.BarrioAdminID != nil {
		s := u.BarrioAdminID.String()
		barrioAdmin = &s
	}
	permisos := make([]dto.PermisoResponse, 0, len(u.Permisos))
	for _, p := range u.Permisos {
		pr := dto.PermisoResponse{
			PuestoID:    p.PuestoID.String(),
			PuedeVer:    p.PuedeVer,
			PuedeEditar: p.PuedeEditar,
		}
		if p.Puesto != nil {
			pr.Puesto = p.Puesto.Nombre
		}
		permisos = append(permisos, pr)
	}
	return dto.UsuarioResponse{
		ID:              u.ID.String(),
		DNI:             u.DNI,
		NombreCompleto:  u.NombreCompleto,
		Email:           u.Email,
		Rol:             string(u.Rol),
		OrganizacionID:  u.OrganizacionID.String(),
		BarrioAdminID:   barrioAdmin,
		VerTodosPuestos: u.VerTodosPuestos,
		Activo:          u.Activo,
		Permisos:        permisos,
	}
}
