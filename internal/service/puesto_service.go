package service

import (
	"context"
	"errors"

	"actalibro/internal/dto"
	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PuestoService lets barrio admins manage the puestos of their own barrio,
// gated by the organization's subscription plan. Super admins bypass both the
// barrio scope and the plan gate.
type PuestoService interface {
	Listar(ctx context.Context, actor *model.Usuario, barrioID uuid.UUID) ([]dto.PuestoResponse, error)
	Crear(ctx context.Context, actor *model.Usuario, barrioID uuid.UUID, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error)
	Renombrar(ctx context.Context, actor *model.Usuario, puestoID uuid.UUID, req dto.RenombrarPuestoRequest) (*dto.PuestoResponse, error)
	Eliminar(ctx context.Context, actor *model.Usuario, puestoID uuid.UUID) error
}

type puestoService struct {
	barrios  repository.BarrioRepository
	orgs     repository.OrganizacionRepository
	actas    repository.ActaRepository
	catalogo *cache.Cache
}

func NewPuestoService(
	barrios repository.BarrioRepository,
	orgs repository.OrganizacionRepository,
	actas repository.ActaRepository,
	catalogo *cache.Cache,
) PuestoService {
	return &puestoService{barrios: barrios, orgs: orgs, actas: actas, catalogo: catalogo}
}

// planPermite enforces the subscription gate for puesto mutations.
func (s *puestoService) planPermite(ctx context.Context, actor *model.Usuario) error {
	if actor.Rol == model.RolSuperAdmin {
		return nil
	}
	if actor.Organizacion != nil && actor.Organizacion.Plan != nil {
		if !actor.Organizacion.Plan.PuedeCrearPuestos {
			return ErrPlanSinPuestos
		}
		return nil
	}
	org, err := s.orgs.FindByID(ctx, actor.OrganizacionID)
	if err != nil {
		return err
	}
	if org.Plan == nil || !org.Plan.PuedeCrearPuestos {
		return ErrPlanSinPuestos
	}
	return nil
}

// barrioGestionable verifies the actor may manage puestos of barrioID.
func barrioGestionable(actor *model.Usuario, barrioID uuid.UUID) error {
	if actor.Rol == model.RolSuperAdmin {
		return nil
	}
	if !actor.EsAdminDe(barrioID) {
		return ErrFueraDeBarrio
	}
	return nil
}

func (s *puestoService) invalidarCatalogo(barrioID uuid.UUID) {
	if s.catalogo != nil {
		s.catalogo.Delete("puestos:" + barrioID.String())
	}
}

func (s *puestoService) Listar(ctx context.Context, actor *model.Usuario, barrioID uuid.UUID) ([]dto.PuestoResponse, error) {
	if err := barrioGestionable(actor, barrioID); err != nil {
		return nil, err
	}
	puestos, err := s.barrios.PuestosDeBarrio(ctx, barrioID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PuestoResponse, len(puestos))
	for i := range puestos {
		resp[i] = puestoToResponse(&puestos[i])
	}
	return resp, nil
}

func (s *puestoService) Crear(ctx context.Context, actor *model.Usuario, barrioID uuid.UUID, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error) {
	if err := barrioGestionable(actor, barrioID); err != nil {
		return nil, err
	}
	if err := s.planPermite(ctx, actor); err != nil {
		return nil, err
	}
	if _, err := s.barrios.FindByID(ctx, barrioID); err != nil {
		return nil, errors.New("barrio no encontrado")
	}

	puesto := &model.Puesto{Nombre: req.Nombre, BarrioID: barrioID}
	if err := s.barrios.CreatePuesto(ctx, puesto); err != nil {
		return nil, mapUniqueViolation(err)
	}
	s.invalidarCatalogo(barrioID)

	resp := puestoToResponse(puesto)
	return &resp, nil
}

func (s *puestoService) Renombrar(ctx context.Context, actor *model.Usuario, puestoID uuid.UUID, req dto.RenombrarPuestoRequest) (*dto.PuestoResponse, error) {
	puesto, err := s.barrios.FindPuesto(ctx, puestoID)
	if err != nil {
		return nil, errors.New("puesto no encontrado")
	}
	if err := barrioGestionable(actor, puesto.BarrioID); err != nil {
		return nil, err
	}
	if err := s.planPermite(ctx, actor); err != nil {
		return nil, err
	}

	if err := s.barrios.RenamePuesto(ctx, puestoID, req.Nombre); err != nil {
		return nil, mapUniqueViolation(err)
	}
	s.invalidarCatalogo(puesto.BarrioID)

	puesto.Nombre = req.Nombre
	resp := puestoToResponse(puesto)
	return &resp, nil
}

// Eliminar refuses to drop a puesto that already has actas: the ledger must
// keep pointing at a real puesto.
func (s *puestoService) Eliminar(ctx context.Context, actor *model.Usuario, puestoID uuid.UUID) error {
	puesto, err := s.barrios.FindPuesto(ctx, puestoID)
	if err != nil {
		return errors.New("puesto no encontrado")
	}
	if err := barrioGestionable(actor, puesto.BarrioID); err != nil {
		return err
	}
	if err := s.planPermite(ctx, actor); err != nil {
		return err
	}

	actas, err := s.actas.CountByPuesto(ctx, puestoID)
	if err != nil {
		return err
	}
	if actas > 0 {
		return ErrPuestoConActas
	}

	if err := s.barrios.DeletePuesto(ctx, puestoID); err != nil {
		return err
	}
	s.invalidarCatalogo(puesto.BarrioID)
	return nil
}
