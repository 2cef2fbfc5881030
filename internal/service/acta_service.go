package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"actalibro/internal/dto"
	"actalibro/internal/model"
	"actalibro/internal/repository"
	"actalibro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrSinPermisoRegistro is the server-side refusal to register into a puesto
// the acting user cannot edit, even when the client bypassed a disabled form.
var ErrSinPermisoRegistro = errors.New("no tenés permiso para registrar en este puesto")

type ActaService interface {
	// Registrar appends one acta after re-resolving edit access. jti is the
	// acting session; a FIN JORNADA entry revokes it after the commit.
	Registrar(ctx context.Context, actor *model.Usuario, jti string, req dto.RegistrarActaRequest) (*dto.RegistrarActaResponse, error)
	// Listar resolves access for the barrio/puesto and pages the ledger of
	// the selected puesto newest-first.
	Listar(ctx context.Context, actor *model.Usuario, f dto.ActaFilter) (*dto.ActaListResponse, error)
	// ActaPorAdjunto returns the acta owning a stored attachment, provided
	// the actor may view its puesto.
	ActaPorAdjunto(ctx context.Context, actor *model.Usuario, archivo string) (*model.Acta, error)
}

type actaService struct {
	actas      repository.ActaRepository
	barrios    repository.BarrioRepository
	usuarios   repository.UsuarioRepository
	acceso     AccesoService
	sesiones   SesionStore
	dispatcher *worker.Dispatcher
}

func NewActaService(
	actas repository.ActaRepository,
	barrios repository.BarrioRepository,
	usuarios repository.UsuarioRepository,
	acceso AccesoService,
	sesiones SesionStore,
	dispatcher *worker.Dispatcher,
) ActaService {
	return &actaService{
		actas:      actas,
		barrios:    barrios,
		usuarios:   usuarios,
		acceso:     acceso,
		sesiones:   sesiones,
		dispatcher: dispatcher,
	}
}

func (s *actaService) Registrar(ctx context.Context, actor *model.Usuario, jti string, req dto.RegistrarActaRequest) (*dto.RegistrarActaResponse, error) {
	barrioID, err := uuid.Parse(req.BarrioID)
	if err != nil {
		return nil, fmt.Errorf("barrio_id inválido: %w", err)
	}
	puestoID, err := uuid.Parse(req.PuestoID)
	if err != nil {
		return nil, fmt.Errorf("puesto_id inválido: %w", err)
	}

	puesto, err := s.barrios.FindPuesto(ctx, puestoID)
	if err != nil {
		return nil, errors.New("puesto no encontrado")
	}
	if puesto.BarrioID != barrioID {
		return nil, errors.New("el puesto no pertenece al barrio seleccionado")
	}
	if !model.ClasificacionValida(req.Clasificacion) {
		return nil, errors.New("clasificación inválida")
	}

	// Edit access is always re-checked here, regardless of any client state.
	ok, err := s.acceso.PuedeRegistrarEn(ctx, actor, puesto)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSinPermisoRegistro
	}

	fechaEvento, err := time.Parse("2006-01-02", req.FechaEvento)
	if err != nil {
		return nil, fmt.Errorf("fecha_evento inválida: %w", err)
	}
	if _, err := time.Parse("15:04", req.HoraEvento); err != nil {
		return nil, fmt.Errorf("hora_evento inválida: %w", err)
	}

	acta := &model.Acta{
		Clasificacion: req.Clasificacion,
		Cuerpo:        req.Cuerpo,
		FechaEvento:   fechaEvento,
		HoraEvento:    req.HoraEvento,
		FechaCreacion: time.Now().UTC(),
		UsuarioID:     actor.ID,
		PuestoID:      puesto.ID,
		Adjunto:       req.Adjunto,
	}
	if err := s.actas.Create(ctx, acta); err != nil {
		return nil, err
	}
	acta.Autor = actor
	acta.Puesto = puesto

	resp := &dto.RegistrarActaResponse{Acta: actaToResponse(acta)}

	// Side effects run after the commit; a failure here never undoes the acta.
	switch acta.Clasificacion {
	case model.ClasificacionFinJornada:
		if err := s.sesiones.Revoke(ctx, jti); err != nil {
			log.Error().Err(err).Str("jti", jti).Msg("fin jornada: no se pudo revocar la sesión")
		} else {
			resp.SesionTerminada = true
		}
	case model.ClasificacionIncidenteMayor:
		s.notificarIncidente(ctx, actor, puesto, acta)
	}

	return resp, nil
}

// notificarIncidente fans a mail out to the barrio's administrators. Errors
// are logged only — the acta is already committed.
func (s *actaService) notificarIncidente(ctx context.Context, actor *model.Usuario, puesto *model.Puesto, acta *model.Acta) {
	if s.dispatcher == nil {
		return
	}
	admins, err := s.usuarios.AdminsDeBarrio(ctx, puesto.BarrioID)
	if err != nil {
		log.Error().Err(err).Msg("incidente mayor: no se pudieron listar los administradores")
		return
	}
	var para []string
	for _, a := range admins {
		if a.Email != nil && *a.Email != "" {
			para = append(para, *a.Email)
		}
	}
	if len(para) == 0 {
		return
	}

	payload := worker.NotificacionPayload{
		Para:   para,
		Asunto: fmt.Sprintf("Incidente Mayor en %s", puesto.Nombre),
		Cuerpo: fmt.Sprintf(
			"%s registró un Incidente Mayor en el puesto %s el %s a las %s:\n\n%s",
			actor.NombreCompleto, puesto.Nombre,
			acta.FechaEvento.Format("02/01/2006"), acta.HoraEvento, acta.Cuerpo,
		),
	}
	if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
		log.Error().Err(err).Msg("incidente mayor: no se pudo encolar la notificación")
	}
}

func (s *actaService) Listar(ctx context.Context, actor *model.Usuario, f dto.ActaFilter) (*dto.ActaListResponse, error) {
	barrioID, err := uuid.Parse(f.BarrioID)
	if err != nil {
		return nil, fmt.Errorf("barrio_id inválido: %w", err)
	}
	var puestoSolicitado *uuid.UUID
	if f.PuestoID != "" {
		pid, err := uuid.Parse(f.PuestoID)
		if err != nil {
			return nil, fmt.Errorf("puesto_id inválido: %w", err)
		}
		puestoSolicitado = &pid
	}

	acceso, err := s.acceso.Resolver(ctx, actor, barrioID, puestoSolicitado)
	if err != nil {
		return nil, err
	}

	filter := repository.ActaFilter{PuestoID: acceso.PuestoActual.ID, Query: f.Query}
	if f.Desde != "" {
		d, err := time.Parse("2006-01-02", f.Desde)
		if err != nil {
			return nil, fmt.Errorf("desde inválido: %w", err)
		}
		filter.Desde = &d
	}
	if f.Hasta != "" {
		h, err := time.Parse("2006-01-02", f.Hasta)
		if err != nil {
			return nil, fmt.Errorf("hasta inválido: %w", err)
		}
		filter.Hasta = &h
	}

	actas, total, err := s.actas.List(ctx, filter, f.Page, f.PorPag)
	if err != nil {
		return nil, err
	}

	resp := &dto.ActaListResponse{
		Acceso: AccesoToResponse(acceso),
		Actas:  make([]dto.ActaResponse, len(actas)),
		Total:  total,
		Page:   f.Page,
		PorPag: f.PorPag,
	}
	for i := range actas {
		resp.Actas[i] = actaToResponse(&actas[i])
	}
	return resp, nil
}

func (s *actaService) ActaPorAdjunto(ctx context.Context, actor *model.Usuario, archivo string) (*model.Acta, error) {
	acta, err := s.actas.FindByAdjunto(ctx, archivo)
	if err != nil {
		return nil, errors.New("adjunto no encontrado")
	}
	if acta.Puesto == nil {
		return nil, errors.New("adjunto sin puesto asociado")
	}
	// Viewing the attachment requires view access on the acta's puesto.
	acceso, err := s.acceso.Resolver(ctx, actor, acta.Puesto.BarrioID, &acta.PuestoID)
	if err != nil {
		return nil, err
	}
	for i := range acceso.Visibles {
		if acceso.Visibles[i].ID == acta.PuestoID {
			return acta, nil
		}
	}
	return nil, ErrSinAcceso
}

func actaToResponse(a *model.Acta) dto.ActaResponse {
	autor := ""
	if a.Autor != nil {
		autor = a.Autor.NombreCompleto
	}
	puesto := ""
	if a.Puesto != nil {
		puesto = a.Puesto.Nombre
	}
	return dto.ActaResponse{
		ID:            a.ID.String(),
		Clasificacion: a.Clasificacion,
		Cuerpo:        a.Cuerpo,
		FechaEvento:   a.FechaEvento.Format("2006-01-02"),
		HoraEvento:    a.HoraEvento,
		FechaCreacion: a.FechaCreacion.Format(time.RFC3339),
		Autor:         autor,
		PuestoID:      a.PuestoID.String(),
		Puesto:        puesto,
		Adjunto:       a.Adjunto,
	}
}

// AccesoToResponse maps the resolver output onto its wire shape.
func AccesoToResponse(a *Acceso) dto.AccesoResponse {
	resp := dto.AccesoResponse{
		PuestosVisibles:  make([]dto.PuestoResponse, len(a.Visibles)),
		PuestosEditables: make([]dto.PuestoResponse, len(a.Editables)),
		PuedeRegistrar:   a.PuedeRegistrar,
	}
	for i, p := range a.Visibles {
		resp.PuestosVisibles[i] = puestoToResponse(&p)
	}
	for i, p := range a.Editables {
		resp.PuestosEditables[i] = puestoToResponse(&p)
	}
	if a.PuestoActual != nil {
		cur := puestoToResponse(a.PuestoActual)
		resp.PuestoActual = &cur
	}
	return resp
}

func puestoToResponse(p *model.Puesto) dto.PuestoResponse {
	return dto.PuestoResponse{
		ID:       p.ID.String(),
		Nombre:   p.Nombre,
		BarrioID: p.BarrioID.String(),
	}
}
