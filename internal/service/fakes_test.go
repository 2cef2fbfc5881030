package service_test

// In-memory repository fakes shared by the service tests. They mirror the
// ordering and preloading behavior of the Postgres implementations closely
// enough for the access and guard logic to be exercised without a database.

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNotFound = errors.New("not found")

// uniqueViolation builds the error Postgres raises on a duplicate key, with
// the constraint name the services map to a field.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ── BarrioRepository ─────────────────────────────────────────────────────────

type fakeBarrioRepo struct {
	barrios map[uuid.UUID]*model.Barrio
	puestos map[uuid.UUID]*model.Puesto
	// permisos lets ListPorPermisos resolve grants → barrios
	permisos *fakePermisoRepo
}

func newFakeBarrioRepo() *fakeBarrioRepo {
	return &fakeBarrioRepo{
		barrios: make(map[uuid.UUID]*model.Barrio),
		puestos: make(map[uuid.UUID]*model.Puesto),
	}
}

func (r *fakeBarrioRepo) addBarrio(nombre string) *model.Barrio {
	b := &model.Barrio{ID: uuid.New(), Nombre: nombre}
	r.barrios[b.ID] = b
	return b
}

func (r *fakeBarrioRepo) addPuesto(barrio *model.Barrio, nombre string) *model.Puesto {
	p := &model.Puesto{ID: uuid.New(), Nombre: nombre, BarrioID: barrio.ID, Barrio: barrio}
	r.puestos[p.ID] = p
	return p
}

func (r *fakeBarrioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Barrio, error) {
	b, ok := r.barrios[id]
	if !ok {
		return nil, errNotFound
	}
	return b, nil
}

func (r *fakeBarrioRepo) ListAll(_ context.Context) ([]model.Barrio, error) {
	out := make([]model.Barrio, 0, len(r.barrios))
	for _, b := range r.barrios {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeBarrioRepo) ListPorPermisos(_ context.Context, usuarioID uuid.UUID) ([]model.Barrio, error) {
	seen := make(map[uuid.UUID]bool)
	var out []model.Barrio
	for _, g := range r.permisos.grants[usuarioID] {
		p, ok := r.puestos[g.PuestoID]
		if !ok || seen[p.BarrioID] {
			continue
		}
		seen[p.BarrioID] = true
		out = append(out, *r.barrios[p.BarrioID])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeBarrioRepo) Create(_ context.Context, b *model.Barrio) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.barrios[b.ID] = b
	return nil
}

func (r *fakeBarrioRepo) PuestosDeBarrio(_ context.Context, barrioID uuid.UUID) ([]model.Puesto, error) {
	var out []model.Puesto
	for _, p := range r.puestos {
		if p.BarrioID == barrioID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeBarrioRepo) FindPuesto(_ context.Context, id uuid.UUID) (*model.Puesto, error) {
	p, ok := r.puestos[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *fakeBarrioRepo) CreatePuesto(_ context.Context, p *model.Puesto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.puestos[p.ID] = p
	return nil
}

func (r *fakeBarrioRepo) RenamePuesto(_ context.Context, id uuid.UUID, nombre string) error {
	p, ok := r.puestos[id]
	if !ok {
		return errNotFound
	}
	p.Nombre = nombre
	return nil
}

func (r *fakeBarrioRepo) DeletePuesto(_ context.Context, id uuid.UUID) error {
	delete(r.puestos, id)
	return nil
}

// ── PermisoRepository ────────────────────────────────────────────────────────

type fakePermisoRepo struct {
	grants  map[uuid.UUID][]model.PermisoPuesto // keyed by usuario
	barrios *fakeBarrioRepo
}

func newFakePermisoRepo(barrios *fakeBarrioRepo) *fakePermisoRepo {
	r := &fakePermisoRepo{grants: make(map[uuid.UUID][]model.PermisoPuesto), barrios: barrios}
	barrios.permisos = r
	return r
}

func (r *fakePermisoRepo) grant(usuarioID uuid.UUID, puesto *model.Puesto, ver, editar bool) {
	r.grants[usuarioID] = append(r.grants[usuarioID], model.PermisoPuesto{
		ID: uuid.New(), UsuarioID: usuarioID, PuestoID: puesto.ID,
		PuedeVer: ver, PuedeEditar: editar, Puesto: puesto,
	})
}

func (r *fakePermisoRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.PermisoPuesto, error) {
	return r.grants[usuarioID], nil
}

func (r *fakePermisoRepo) ReplaceEnBarrio(_ context.Context, usuarioID, barrioID uuid.UUID, nuevos []model.PermisoPuesto) error {
	var kept []model.PermisoPuesto
	for _, g := range r.grants[usuarioID] {
		p := r.barrios.puestos[g.PuestoID]
		if p == nil || p.BarrioID != barrioID {
			kept = append(kept, g)
		}
	}
	for _, n := range nuevos {
		n.ID = uuid.New()
		n.UsuarioID = usuarioID
		n.Puesto = r.barrios.puestos[n.PuestoID]
		kept = append(kept, n)
	}
	r.grants[usuarioID] = kept
	return nil
}

// ── UsuarioRepository ────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	users    map[uuid.UUID]*model.Usuario
	permisos *fakePermisoRepo
}

func newFakeUsuarioRepo(permisos *fakePermisoRepo) *fakeUsuarioRepo {
	return &fakeUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario), permisos: permisos}
}

func (r *fakeUsuarioRepo) add(u *model.Usuario) *model.Usuario {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Activo = true
	r.users[u.ID] = u
	return u
}

func (r *fakeUsuarioRepo) withPermisos(u *model.Usuario) *model.Usuario {
	cp := *u
	cp.Permisos = r.permisos.grants[u.ID]
	return &cp
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.add(u)
	return nil
}

func (r *fakeUsuarioRepo) CreateConPermisos(_ context.Context, u *model.Usuario, permisos []model.PermisoPuesto) error {
	for _, existing := range r.users {
		if existing.DNI == u.DNI {
			return uniqueViolation(repository.ConstraintUsuarioDNI)
		}
		// Emails compare case-insensitively, like the lower(email) index.
		if existing.Email != nil && u.Email != nil && strings.EqualFold(*existing.Email, *u.Email) {
			return uniqueViolation(repository.ConstraintUsuarioEmail)
		}
	}
	r.add(u)
	for _, p := range permisos {
		r.permisos.grant(u.ID, r.permisos.barrios.puestos[p.PuestoID], p.PuedeVer, p.PuedeEditar)
	}
	return nil
}

func (r *fakeUsuarioRepo) FindByDNI(_ context.Context, dni string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.DNI == dni && u.Activo {
			return r.withPermisos(u), nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return r.withPermisos(u), nil
}

func (r *fakeUsuarioRepo) ListByBarrio(_ context.Context, barrioID uuid.UUID, page, limit int) ([]model.Usuario, int64, error) {
	var out []model.Usuario
	for id, u := range r.users {
		for _, g := range r.permisos.grants[id] {
			if g.Puesto != nil && g.Puesto.BarrioID == barrioID {
				out = append(out, *r.withPermisos(u))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NombreCompleto < out[j].NombreCompleto })
	total := int64(len(out))
	start := (page - 1) * limit
	if start > len(out) {
		start = len(out)
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.users[u.ID]; !ok {
		return errNotFound
	}
	cp := *u
	cp.Permisos = nil
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	delete(r.permisos.grants, id)
	return nil
}

func (r *fakeUsuarioRepo) CountAdminsDeBarrio(_ context.Context, barrioID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.EsAdminDe(barrioID) && u.Activo {
			n++
		}
	}
	return n, nil
}

func (r *fakeUsuarioRepo) AdminsDeBarrio(_ context.Context, barrioID uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.users {
		if u.EsAdminDe(barrioID) && u.Activo {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NombreCompleto < out[j].NombreCompleto })
	return out, nil
}

// ── ActaRepository ───────────────────────────────────────────────────────────

type fakeActaRepo struct {
	actas []model.Acta
	// barrios mirrors the production repo's Preload("Puesto") in FindByAdjunto
	barrios *fakeBarrioRepo
}

func (r *fakeActaRepo) Create(_ context.Context, a *model.Acta) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.actas = append(r.actas, *a)
	return nil
}

func (r *fakeActaRepo) matches(a model.Acta, f repository.ActaFilter) bool {
	if a.PuestoID != f.PuestoID {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(a.Clasificacion), q) &&
			!strings.Contains(strings.ToLower(a.Cuerpo), q) {
			return false
		}
	}
	if f.Desde != nil && a.FechaEvento.Before(*f.Desde) {
		return false
	}
	if f.Hasta != nil && a.FechaEvento.After(*f.Hasta) {
		return false
	}
	return true
}

func (r *fakeActaRepo) filtered(f repository.ActaFilter) []model.Acta {
	var out []model.Acta
	for _, a := range r.actas {
		if r.matches(a, f) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCreacion.After(out[j].FechaCreacion) })
	return out
}

func (r *fakeActaRepo) List(_ context.Context, f repository.ActaFilter, page, limit int) ([]model.Acta, int64, error) {
	all := r.filtered(f)
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeActaRepo) ListAllFiltered(_ context.Context, f repository.ActaFilter) ([]model.Acta, error) {
	return r.filtered(f), nil
}

func (r *fakeActaRepo) FindByAdjunto(_ context.Context, archivo string) (*model.Acta, error) {
	for i := range r.actas {
		if r.actas[i].Adjunto != nil && *r.actas[i].Adjunto == archivo {
			a := r.actas[i]
			if r.barrios != nil {
				a.Puesto = r.barrios.puestos[a.PuestoID]
			}
			return &a, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeActaRepo) CountByAutor(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.actas {
		if a.UsuarioID == usuarioID {
			n++
		}
	}
	return n, nil
}

func (r *fakeActaRepo) CountByPuesto(_ context.Context, puestoID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.actas {
		if a.PuestoID == puestoID {
			n++
		}
	}
	return n, nil
}

// ── OrganizacionRepository ───────────────────────────────────────────────────

type fakeOrgRepo struct {
	orgs   map[uuid.UUID]*model.Organizacion
	planes map[uuid.UUID]*model.Plan
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		orgs:   make(map[uuid.UUID]*model.Organizacion),
		planes: make(map[uuid.UUID]*model.Plan),
	}
}

func (r *fakeOrgRepo) addOrg(nombre string, plan *model.Plan) *model.Organizacion {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	r.planes[plan.ID] = plan
	o := &model.Organizacion{ID: uuid.New(), Nombre: nombre, PlanID: plan.ID, Plan: plan}
	r.orgs[o.ID] = o
	return o
}

func (r *fakeOrgRepo) CreateConAdmin(_ context.Context, org *model.Organizacion, admin *model.Usuario) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	r.orgs[org.ID] = org
	admin.OrganizacionID = org.ID
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	return nil
}

func (r *fakeOrgRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Organizacion, error) {
	o, ok := r.orgs[id]
	if !ok {
		return nil, errNotFound
	}
	return o, nil
}

func (r *fakeOrgRepo) ListAll(_ context.Context) ([]model.Organizacion, error) {
	var out []model.Organizacion
	for _, o := range r.orgs {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeOrgRepo) ListPlanes(_ context.Context) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range r.planes {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeOrgRepo) FindPlan(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	p, ok := r.planes[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

// ── SesionStore ──────────────────────────────────────────────────────────────

type fakeSesiones struct {
	vivas    map[string]bool
	revocado []string
}

func newFakeSesiones() *fakeSesiones {
	return &fakeSesiones{vivas: make(map[string]bool)}
}

func (s *fakeSesiones) Create(_ context.Context, jti, _ string, _ time.Duration) error {
	s.vivas[jti] = true
	return nil
}

func (s *fakeSesiones) Revoke(_ context.Context, jti string) error {
	delete(s.vivas, jti)
	s.revocado = append(s.revocado, jti)
	return nil
}
