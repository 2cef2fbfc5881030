package service

import (
	"context"
	"errors"
	"fmt"

	"actalibro/internal/dto"
	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UsuarioService covers the per-barrio user administration panel: barrio
// admins manage only the users holding grants on their own barrio.
type UsuarioService interface {
	Crear(ctx context.Context, admin *model.Usuario, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context, admin *model.Usuario, page, limit int) (*dto.UsuarioListResponse, error)
	Actualizar(ctx context.Context, admin *model.Usuario, usuarioID uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Eliminar(ctx context.Context, admin *model.Usuario, usuarioID uuid.UUID) error
}

type usuarioService struct {
	usuarios repository.UsuarioRepository
	permisos repository.PermisoRepository
	barrios  repository.BarrioRepository
	actas    repository.ActaRepository
}

func NewUsuarioService(
	usuarios repository.UsuarioRepository,
	permisos repository.PermisoRepository,
	barrios repository.BarrioRepository,
	actas repository.ActaRepository,
) UsuarioService {
	return &usuarioService{usuarios: usuarios, permisos: permisos, barrios: barrios, actas: actas}
}

// barrioGestionado resolves which barrio the acting admin manages.
func barrioGestionado(admin *model.Usuario) (uuid.UUID, error) {
	if admin.BarrioAdminID == nil {
		return uuid.Nil, errors.New("tu cuenta de administrador no tiene un barrio asignado")
	}
	return *admin.BarrioAdminID, nil
}

// permisosValidados converts the request grants, refusing puestos outside the
// admin's barrio.
func (s *usuarioService) permisosValidados(ctx context.Context, barrioID uuid.UUID, input []dto.PermisoInput) ([]model.PermisoPuesto, error) {
	puestos, err := s.barrios.PuestosDeBarrio(ctx, barrioID)
	if err != nil {
		return nil, err
	}
	enBarrio := make(map[uuid.UUID]bool, len(puestos))
	for _, p := range puestos {
		enBarrio[p.ID] = true
	}

	out := make([]model.PermisoPuesto, 0, len(input))
	for _, in := range input {
		pid, err := uuid.Parse(in.PuestoID)
		if err != nil {
			return nil, fmt.Errorf("puesto_id inválido: %w", err)
		}
		if !enBarrio[pid] {
			return nil, errors.New("puesto fuera del barrio que administrás")
		}
		out = append(out, model.PermisoPuesto{
			PuestoID:    pid,
			PuedeVer:    in.PuedeVer,
			PuedeEditar: in.PuedeEditar,
		})
	}
	return out, nil
}

func (s *usuarioService) Crear(ctx context.Context, admin *model.Usuario, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	barrioID, err := barrioGestionado(admin)
	if err != nil {
		return nil, err
	}
	permisos, err := s.permisosValidados(ctx, barrioID, req.Permisos)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		DNI:            req.DNI,
		NombreCompleto: req.NombreCompleto,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Rol:            model.RolUsuario,
		OrganizacionID: admin.OrganizacionID,
		Activo:         true,
	}
	if err := s.usuarios.CreateConPermisos(ctx, user, permisos); err != nil {
		return nil, mapUniqueViolation(err)
	}

	created, err := s.usuarios.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := UsuarioToResponse(created)
	return &resp, nil
}

func (s *usuarioService) Listar(ctx context.Context, admin *model.Usuario, page, limit int) (*dto.UsuarioListResponse, error) {
	barrioID, err := barrioGestionado(admin)
	if err != nil {
		return nil, err
	}
	users, total, err := s.usuarios.ListByBarrio(ctx, barrioID, page, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = UsuarioToResponse(&users[i])
	}
	return &dto.UsuarioListResponse{Usuarios: resp, Total: total, Page: page, PorPag: limit}, nil
}

// perteneceAlBarrio reports whether the target user holds any grant on the
// given barrio. Admins cannot touch users of other barrios.
func perteneceAlBarrio(target *model.Usuario, barrioID uuid.UUID) bool {
	for _, p := range target.Permisos {
		if p.Puesto != nil && p.Puesto.BarrioID == barrioID {
			return true
		}
	}
	return false
}

func (s *usuarioService) Actualizar(ctx context.Context, admin *model.Usuario, usuarioID uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	barrioID, err := barrioGestionado(admin)
	if err != nil {
		return nil, err
	}
	user, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	if !perteneceAlBarrio(user, barrioID) {
		return nil, ErrFueraDeBarrio
	}

	permisos, err := s.permisosValidados(ctx, barrioID, req.Permisos)
	if err != nil {
		return nil, err
	}

	if req.DNI != "" {
		user.DNI = req.DNI
	}
	if req.NombreCompleto != "" {
		user.NombreCompleto = req.NombreCompleto
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	// Field updates first: a DNI/email conflict aborts before grants move.
	if err := s.usuarios.Update(ctx, user); err != nil {
		return nil, mapUniqueViolation(err)
	}

	// Grant replacement is one atomic unit: the old set within this barrio is
	// dropped and the new one inserted, or neither happens.
	if err := s.permisos.ReplaceEnBarrio(ctx, usuarioID, barrioID, permisos); err != nil {
		return nil, mapUniqueViolation(err)
	}

	updated, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := UsuarioToResponse(updated)
	return &resp, nil
}

// Eliminar refuses to delete a user who authored actas (ledger provenance) or
// whose removal would leave a barrio without administrators. Nothing is
// mutated on refusal.
func (s *usuarioService) Eliminar(ctx context.Context, admin *model.Usuario, usuarioID uuid.UUID) error {
	user, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return errors.New("usuario no encontrado")
	}

	if admin.Rol != model.RolSuperAdmin {
		barrioID, err := barrioGestionado(admin)
		if err != nil {
			return err
		}
		if !perteneceAlBarrio(user, barrioID) && !user.EsAdminDe(barrioID) {
			return ErrFueraDeBarrio
		}
	}

	actas, err := s.actas.CountByAutor(ctx, usuarioID)
	if err != nil {
		return err
	}
	if actas > 0 {
		return ErrUsuarioConActas
	}

	if user.Rol == model.RolAdministrador && user.BarrioAdminID != nil {
		admins, err := s.usuarios.CountAdminsDeBarrio(ctx, *user.BarrioAdminID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrUltimoAdmin
		}
	}

	return s.usuarios.Delete(ctx, usuarioID)
}
