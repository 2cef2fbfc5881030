package service_test

import (
	"context"
	"testing"

	"actalibro/internal/dto"
	"actalibro/internal/model"
	"actalibro/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPuestos(m *mundo) (service.PuestoService, *fakeOrgRepo, *fakeActaRepo) {
	orgs := newFakeOrgRepo()
	actas := &fakeActaRepo{}
	svc := service.NewPuestoService(m.barrios, orgs, actas, nil)
	return svc, orgs, actas
}

func TestCrearPuestoPlanBloqueado(t *testing.T) {
	m := nuevoMundo()
	svc, orgs, _ := setupPuestos(m)

	org := orgs.addOrg("Demo SL", &model.Plan{Nombre: "Básico", PuedeCrearPuestos: false})
	admin := m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID,
		OrganizacionID: org.ID, Organizacion: org,
	})

	_, err := svc.Crear(context.Background(), admin, m.cadaques.ID, dto.CrearPuestoRequest{Nombre: "Garita Sur"})
	assert.ErrorIs(t, err, service.ErrPlanSinPuestos)
}

func TestCrearPuestoPlanCompleto(t *testing.T) {
	m := nuevoMundo()
	svc, orgs, _ := setupPuestos(m)

	org := orgs.addOrg("Demo SL", &model.Plan{Nombre: "Completo", PuedeCrearPuestos: true})
	admin := m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID,
		OrganizacionID: org.ID, Organizacion: org,
	})

	resp, err := svc.Crear(context.Background(), admin, m.cadaques.ID, dto.CrearPuestoRequest{Nombre: "Garita Sur"})
	require.NoError(t, err)
	assert.Equal(t, "Garita Sur", resp.Nombre)

	puestos, err := m.barrios.PuestosDeBarrio(context.Background(), m.cadaques.ID)
	require.NoError(t, err)
	assert.Len(t, puestos, 4)
}

func TestCrearPuestoFueraDelBarrioAdministrado(t *testing.T) {
	m := nuevoMundo()
	svc, orgs, _ := setupPuestos(m)

	org := orgs.addOrg("Demo SL", &model.Plan{Nombre: "Completo", PuedeCrearPuestos: true})
	admin := m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID,
		OrganizacionID: org.ID, Organizacion: org,
	})

	_, err := svc.Crear(context.Background(), admin, m.begur.ID, dto.CrearPuestoRequest{Nombre: "Entrada Begur"})
	assert.ErrorIs(t, err, service.ErrFueraDeBarrio)
}

func TestSuperAdminIgnoraElPlan(t *testing.T) {
	m := nuevoMundo()
	svc, _, _ := setupPuestos(m)
	super := m.usuarios.add(&model.Usuario{Rol: model.RolSuperAdmin})

	_, err := svc.Crear(context.Background(), super, m.begur.ID, dto.CrearPuestoRequest{Nombre: "Entrada Begur"})
	assert.NoError(t, err)
}

func TestEliminarPuestoConActas(t *testing.T) {
	m := nuevoMundo()
	svc, orgs, actas := setupPuestos(m)

	org := orgs.addOrg("Demo SL", &model.Plan{Nombre: "Completo", PuedeCrearPuestos: true})
	admin := m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID,
		OrganizacionID: org.ID, Organizacion: org,
	})
	require.NoError(t, actas.Create(context.Background(), &model.Acta{
		Clasificacion: "Ronda de Seguridad", Cuerpo: "sin novedades", PuestoID: m.garita.ID,
	}))

	err := svc.Eliminar(context.Background(), admin, m.garita.ID)
	assert.ErrorIs(t, err, service.ErrPuestoConActas)

	// An empty puesto can go
	require.NoError(t, svc.Eliminar(context.Background(), admin, m.porton.ID))
	_, err = m.barrios.FindPuesto(context.Background(), m.porton.ID)
	assert.Error(t, err)
}
