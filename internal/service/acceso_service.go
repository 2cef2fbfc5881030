package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrSinAcceso signals an empty viewable set: the caller has no puesto to
// show in this barrio and must not fall back to a default.
var ErrSinAcceso = errors.New("sin acceso a ningún puesto de este barrio")

// Acceso is the resolver output for one (usuario, barrio) pair: the ordered
// viewable and editable puesto sets, the selected puesto, and whether the
// user may register entries into it.
type Acceso struct {
	Visibles       []model.Puesto
	Editables      []model.Puesto
	PuestoActual   *model.Puesto
	PuedeRegistrar bool
}

type AccesoService interface {
	// Resolver computes view/edit access for usuario within barrioID and
	// selects the current puesto: the requested one when viewable, otherwise
	// the first viewable; ErrSinAcceso when nothing is viewable.
	Resolver(ctx context.Context, usuario *model.Usuario, barrioID uuid.UUID, puestoSolicitado *uuid.UUID) (*Acceso, error)
	// PuedeRegistrarEn re-checks edit access for a specific puesto. Acta
	// creation calls this server-side regardless of any client state.
	PuedeRegistrarEn(ctx context.Context, usuario *model.Usuario, puesto *model.Puesto) (bool, error)
	// BarriosDeUsuario lists the barrios the user can select as context,
	// ordered by name: all of them for a super admin, otherwise the ones
	// reachable through grants plus the administered barrio.
	BarriosDeUsuario(ctx context.Context, usuario *model.Usuario) ([]model.Barrio, error)
}

type accesoService struct {
	barrios  repository.BarrioRepository
	permisos repository.PermisoRepository
	catalogo *cache.Cache
}

// NewAccesoService builds the resolver. catalogo caches the puesto list per
// barrio for a short TTL; puesto management flushes it on every mutation.
func NewAccesoService(barrios repository.BarrioRepository, permisos repository.PermisoRepository, catalogo *cache.Cache) AccesoService {
	return &accesoService{barrios: barrios, permisos: permisos, catalogo: catalogo}
}

const catalogoTTL = 30 * time.Second

func (s *accesoService) puestosDeBarrio(ctx context.Context, barrioID uuid.UUID) ([]model.Puesto, error) {
	key := "puestos:" + barrioID.String()
	if s.catalogo != nil {
		if v, ok := s.catalogo.Get(key); ok {
			return v.([]model.Puesto), nil
		}
	}
	puestos, err := s.barrios.PuestosDeBarrio(ctx, barrioID)
	if err != nil {
		return nil, err
	}
	if s.catalogo != nil {
		s.catalogo.Set(key, puestos, catalogoTTL)
	}
	return puestos, nil
}

func (s *accesoService) permisosDe(ctx context.Context, usuario *model.Usuario) ([]model.PermisoPuesto, error) {
	if usuario.Permisos != nil {
		return usuario.Permisos, nil
	}
	return s.permisos.ListByUsuario(ctx, usuario.ID)
}

func (s *accesoService) Resolver(ctx context.Context, usuario *model.Usuario, barrioID uuid.UUID, puestoSolicitado *uuid.UUID) (*Acceso, error) {
	var (
		visibles  []model.Puesto
		editables []model.Puesto
		esAdmin   bool
	)

	switch usuario.Rol {
	case model.RolSuperAdmin:
		// Full access to every puesto of every barrio.
		todos, err := s.puestosDeBarrio(ctx, barrioID)
		if err != nil {
			return nil, err
		}
		visibles, editables, esAdmin = todos, todos, true

	case model.RolAdministrador:
		if usuario.EsAdminDe(barrioID) {
			todos, err := s.puestosDeBarrio(ctx, barrioID)
			if err != nil {
				return nil, err
			}
			visibles, editables, esAdmin = todos, todos, true
			break
		}
		// An administrador outside their own barrio resolves like an
		// ordinary user: explicit grants only.
		fallthrough

	case model.RolUsuario:
		permisos, err := s.permisosDe(ctx, usuario)
		if err != nil {
			return nil, err
		}
		for _, p := range permisos {
			if p.Puesto == nil || p.Puesto.BarrioID != barrioID {
				continue
			}
			// An edit grant implies viewability even with puede_ver=false.
			if p.PuedeVer || p.PuedeEditar {
				visibles = append(visibles, *p.Puesto)
			}
			if p.PuedeEditar {
				editables = append(editables, *p.Puesto)
			}
		}
		if usuario.VerTodosPuestos {
			// Expands the viewable set to the whole barrio; edit rights
			// still come strictly from grants.
			todos, err := s.puestosDeBarrio(ctx, barrioID)
			if err != nil {
				return nil, err
			}
			visibles = todos
		}
		sortPuestos(visibles)
		sortPuestos(editables)

	default:
		// Closed enumeration: an unknown role is a programming error and
		// must never resolve to the permissive or the restrictive branch
		// silently.
		return nil, fmt.Errorf("rol desconocido %q", usuario.Rol)
	}

	if len(visibles) == 0 {
		return nil, ErrSinAcceso
	}

	actual := &visibles[0]
	if puestoSolicitado != nil {
		for i := range visibles {
			if visibles[i].ID == *puestoSolicitado {
				actual = &visibles[i]
				break
			}
		}
	}

	puedeRegistrar := esAdmin
	if !puedeRegistrar {
		for i := range editables {
			if editables[i].ID == actual.ID {
				puedeRegistrar = true
				break
			}
		}
	}

	return &Acceso{
		Visibles:       visibles,
		Editables:      editables,
		PuestoActual:   actual,
		PuedeRegistrar: puedeRegistrar,
	}, nil
}

func (s *accesoService) PuedeRegistrarEn(ctx context.Context, usuario *model.Usuario, puesto *model.Puesto) (bool, error) {
	acceso, err := s.Resolver(ctx, usuario, puesto.BarrioID, &puesto.ID)
	if err != nil {
		if errors.Is(err, ErrSinAcceso) {
			return false, nil
		}
		return false, err
	}
	// Resolver falls back to the first viewable puesto when the requested one
	// is not viewable; registering requires the requested puesto itself.
	if acceso.PuestoActual == nil || acceso.PuestoActual.ID != puesto.ID {
		return false, nil
	}
	return acceso.PuedeRegistrar, nil
}

func (s *accesoService) BarriosDeUsuario(ctx context.Context, usuario *model.Usuario) ([]model.Barrio, error) {
	if usuario.Rol == model.RolSuperAdmin {
		return s.barrios.ListAll(ctx)
	}

	barrios, err := s.barrios.ListPorPermisos(ctx, usuario.ID)
	if err != nil {
		return nil, err
	}

	if usuario.BarrioAdminID != nil {
		found := false
		for _, b := range barrios {
			if b.ID == *usuario.BarrioAdminID {
				found = true
				break
			}
		}
		if !found {
			admin, err := s.barrios.FindByID(ctx, *usuario.BarrioAdminID)
			if err != nil {
				return nil, err
			}
			barrios = append(barrios, *admin)
		}
	}

	sort.Slice(barrios, func(i, j int) bool { return barrios[i].Nombre < barrios[j].Nombre })
	return barrios, nil
}

func sortPuestos(puestos []model.Puesto) {
	sort.Slice(puestos, func(i, j int) bool { return puestos[i].Nombre < puestos[j].Nombre })
}
