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

func setupUsuarios(m *mundo) (service.UsuarioService, *fakeActaRepo) {
	actas := &fakeActaRepo{}
	svc := service.NewUsuarioService(m.usuarios, m.permisos, m.barrios, actas)
	return svc, actas
}

func adminDeCadaques(m *mundo) *model.Usuario {
	return m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID,
		NombreCompleto: "Marta Ferrer", DNI: "11111111",
	})
}

func TestCrearUsuarioConPermisos(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	resp, err := svc.Crear(context.Background(), admin, dto.CrearUsuarioRequest{
		DNI: "22222222", NombreCompleto: "Jordi Puig", Password: "secreto123",
		Permisos: []dto.PermisoInput{
			{PuestoID: m.garita.ID.String(), PuedeVer: true, PuedeEditar: true},
			{PuestoID: m.porton.ID.String(), PuedeVer: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "usuario", resp.Rol)
	assert.Len(t, resp.Permisos, 2)
}

func TestCrearUsuarioDNIDuplicado(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	req := dto.CrearUsuarioRequest{
		DNI: "22222222", NombreCompleto: "Jordi Puig", Password: "secreto123",
		Permisos: []dto.PermisoInput{{PuestoID: m.garita.ID.String(), PuedeVer: true}},
	}
	_, err := svc.Crear(context.Background(), admin, req)
	require.NoError(t, err)
	antes := len(m.usuarios.users)

	_, err = svc.Crear(context.Background(), admin, req)
	var conflicto *service.ConflictoError
	require.ErrorAs(t, err, &conflicto)
	assert.Equal(t, "dni", conflicto.Field)
	assert.Len(t, m.usuarios.users, antes)
}

func TestCrearUsuarioEmailDuplicado(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	email := "jordi@actalibro.app"
	_, err := svc.Crear(context.Background(), admin, dto.CrearUsuarioRequest{
		DNI: "22222222", NombreCompleto: "Jordi Puig", Email: &email, Password: "secreto123",
		Permisos: []dto.PermisoInput{{PuestoID: m.garita.ID.String(), PuedeVer: true}},
	})
	require.NoError(t, err)
	antes := len(m.usuarios.users)

	// Same address, different case: the lower(email) index catches both.
	otroCase := "Jordi@Actalibro.app"
	_, err = svc.Crear(context.Background(), admin, dto.CrearUsuarioRequest{
		DNI: "33333333", NombreCompleto: "Otro Jordi", Email: &otroCase, Password: "secreto123",
		Permisos: []dto.PermisoInput{{PuestoID: m.garita.ID.String(), PuedeVer: true}},
	})
	var conflicto *service.ConflictoError
	require.ErrorAs(t, err, &conflicto)
	assert.Equal(t, "email", conflicto.Field)
	assert.Len(t, m.usuarios.users, antes)
}

func TestCrearUsuarioRechazaPuestoDeOtroBarrio(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)
	ajeno := m.barrios.addPuesto(m.begur, "Entrada Begur")

	_, err := svc.Crear(context.Background(), admin, dto.CrearUsuarioRequest{
		DNI: "22222222", NombreCompleto: "Jordi Puig", Password: "secreto123",
		Permisos: []dto.PermisoInput{{PuestoID: ajeno.ID.String(), PuedeVer: true}},
	})
	assert.Error(t, err)
}

func TestActualizarReemplazaPermisosAtomicamente(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	user := m.usuarios.add(&model.Usuario{Rol: model.RolUsuario, DNI: "22222222", NombreCompleto: "Jordi Puig"})
	m.permisos.grant(user.ID, m.garita, true, true)
	m.permisos.grant(user.ID, m.porton, true, false)

	req := dto.ActualizarUsuarioRequest{
		Permisos: []dto.PermisoInput{{PuestoID: m.recepcio.ID.String(), PuedeVer: true, PuedeEditar: true}},
	}
	resp, err := svc.Actualizar(context.Background(), admin, user.ID, req)
	require.NoError(t, err)
	require.Len(t, resp.Permisos, 1)
	assert.Equal(t, m.recepcio.ID.String(), resp.Permisos[0].PuestoID)

	// Idempotent: replaying the same replacement leaves the same state
	resp, err = svc.Actualizar(context.Background(), admin, user.ID, req)
	require.NoError(t, err)
	assert.Len(t, resp.Permisos, 1)
}

func TestActualizarUsuarioDeOtroBarrio(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	ajeno := m.barrios.addPuesto(m.begur, "Entrada Begur")
	user := m.usuarios.add(&model.Usuario{Rol: model.RolUsuario, DNI: "33333333"})
	m.permisos.grant(user.ID, ajeno, true, false)

	_, err := svc.Actualizar(context.Background(), admin, user.ID, dto.ActualizarUsuarioRequest{
		Permisos: []dto.PermisoInput{{PuestoID: m.garita.ID.String(), PuedeVer: true}},
	})
	assert.ErrorIs(t, err, service.ErrFueraDeBarrio)
}

func TestEliminarUsuarioConActas(t *testing.T) {
	m := nuevoMundo()
	svc, actas := setupUsuarios(m)
	admin := adminDeCadaques(m)

	user := m.usuarios.add(&model.Usuario{Rol: model.RolUsuario, DNI: "22222222"})
	m.permisos.grant(user.ID, m.garita, true, true)
	require.NoError(t, actas.Create(context.Background(), &model.Acta{
		Clasificacion: "Ronda de Seguridad", Cuerpo: "sin novedades",
		UsuarioID: user.ID, PuestoID: m.garita.ID,
	}))

	err := svc.Eliminar(context.Background(), admin, user.ID)
	assert.ErrorIs(t, err, service.ErrUsuarioConActas)

	// Nothing was mutated on refusal
	_, findErr := m.usuarios.FindByID(context.Background(), user.ID)
	assert.NoError(t, findErr)
}

func TestEliminarUltimoAdminDelBarrio(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	err := svc.Eliminar(context.Background(), admin, admin.ID)
	assert.ErrorIs(t, err, service.ErrUltimoAdmin)

	// With a second admin in place the deletion goes through
	otro := m.usuarios.add(&model.Usuario{
		Rol: model.RolAdministrador, BarrioAdminID: &m.cadaques.ID, DNI: "44444444",
	})
	require.NoError(t, svc.Eliminar(context.Background(), admin, otro.ID))
}

func TestEliminarUsuarioSinActas(t *testing.T) {
	m := nuevoMundo()
	svc, _ := setupUsuarios(m)
	admin := adminDeCadaques(m)

	user := m.usuarios.add(&model.Usuario{Rol: model.RolUsuario, DNI: "22222222"})
	m.permisos.grant(user.ID, m.garita, true, false)

	require.NoError(t, svc.Eliminar(context.Background(), admin, user.ID))
	_, err := m.usuarios.FindByID(context.Background(), user.ID)
	assert.Error(t, err)
}
