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

type OrganizacionService interface {
	// Crear registers a tenant and its first barrio administrator atomically.
	Crear(ctx context.Context, req dto.CrearOrganizacionRequest) (*dto.OrganizacionResponse, error)
	Listar(ctx context.Context) ([]dto.OrganizacionResponse, error)
	ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error)
	// CrearBarrio provisions a barrio ahead of its organization.
	CrearBarrio(ctx context.Context, req dto.CrearBarrioRequest) (*dto.BarrioResponse, error)
}

type organizacionService struct {
	orgs    repository.OrganizacionRepository
	barrios repository.BarrioRepository
}

func NewOrganizacionService(orgs repository.OrganizacionRepository, barrios repository.BarrioRepository) OrganizacionService {
	return &organizacionService{orgs: orgs, barrios: barrios}
}

func (s *organizacionService) Crear(ctx context.Context, req dto.CrearOrganizacionRequest) (*dto.OrganizacionResponse, error) {
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan_id inválido: %w", err)
	}
	barrioID, err := uuid.Parse(req.BarrioID)
	if err != nil {
		return nil, fmt.Errorf("barrio_id inválido: %w", err)
	}

	plan, err := s.orgs.FindPlan(ctx, planID)
	if err != nil {
		return nil, errors.New("plan no encontrado")
	}
	if _, err := s.barrios.FindByID(ctx, barrioID); err != nil {
		return nil, errors.New("barrio no encontrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), 12)
	if err != nil {
		return nil, err
	}

	org := &model.Organizacion{Nombre: req.Nombre, PlanID: plan.ID}
	email := req.AdminEmail
	admin := &model.Usuario{
		DNI:            req.AdminDNI,
		NombreCompleto: req.AdminNombre,
		Email:          &email,
		PasswordHash:   string(hash),
		Rol:            model.RolAdministrador,
		BarrioAdminID:  &barrioID,
		Activo:         true,
	}
	if err := s.orgs.CreateConAdmin(ctx, org, admin); err != nil {
		return nil, mapUniqueViolation(err)
	}

	org.Plan = plan
	resp := organizacionToResponse(org)
	return &resp, nil
}

func (s *organizacionService) Listar(ctx context.Context) ([]dto.OrganizacionResponse, error) {
	orgs, err := s.orgs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrganizacionResponse, len(orgs))
	for i := range orgs {
		resp[i] = organizacionToResponse(&orgs[i])
	}
	return resp, nil
}

func (s *organizacionService) ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error) {
	planes, err := s.orgs.ListPlanes(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PlanResponse, len(planes))
	for i := range planes {
		resp[i] = planToResponse(&planes[i])
	}
	return resp, nil
}

func (s *organizacionService) CrearBarrio(ctx context.Context, req dto.CrearBarrioRequest) (*dto.BarrioResponse, error) {
	barrio := &model.Barrio{Nombre: req.Nombre, Zona: req.Zona}
	if err := s.barrios.Create(ctx, barrio); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &dto.BarrioResponse{ID: barrio.ID.String(), Nombre: barrio.Nombre, Zona: barrio.Zona}, nil
}

func organizacionToResponse(o *model.Organizacion) dto.OrganizacionResponse {
	resp := dto.OrganizacionResponse{ID: o.ID.String(), Nombre: o.Nombre}
	if o.Plan != nil {
		resp.Plan = planToResponse(o.Plan)
	}
	return resp
}

func planToResponse(p *model.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:                p.ID.String(),
		Nombre:            p.Nombre,
		Precio:            p.Precio.StringFixed(2),
		PuedeCrearPuestos: p.PuedeCrearPuestos,
	}
}
