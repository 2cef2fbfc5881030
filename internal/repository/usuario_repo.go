package repository

import (
	"context"

	"actalibro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	// CreateConPermisos inserts the user and their initial grant set in one
	// transaction; a duplicate DNI/email or grant rolls back everything.
	CreateConPermisos(ctx context.Context, u *model.Usuario, permisos []model.PermisoPuesto) error
	FindByDNI(ctx context.Context, dni string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	ListByBarrio(ctx context.Context, barrioID uuid.UUID, page, limit int) ([]model.Usuario, int64, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAdminsDeBarrio(ctx context.Context, barrioID uuid.UUID) (int64, error)
	// AdminsDeBarrio returns the active administrators assigned to a barrio.
	AdminsDeBarrio(ctx context.Context, barrioID uuid.UUID) ([]model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) CreateConPermisos(ctx context.Context, u *model.Usuario, permisos []model.PermisoPuesto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for i := range permisos {
			permisos[i].UsuarioID = u.ID
		}
		if len(permisos) == 0 {
			return nil
		}
		return tx.Create(&permisos).Error
	})
}

func (r *usuarioRepo) FindByDNI(ctx context.Context, dni string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Permisos.Puesto").
		Preload("Organizacion.Plan").
		Where("dni = ? AND activo = true", dni).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Permisos.Puesto").
		Preload("Organizacion.Plan").
		First(&u, "id = ?", id).Error
	return &u, err
}

// ListByBarrio pages through the users holding at least one grant on a puesto
// of the barrio, ordered by full name.
func (r *usuarioRepo) ListByBarrio(ctx context.Context, barrioID uuid.UUID, page, limit int) ([]model.Usuario, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Joins("JOIN permiso_puestos pp ON pp.usuario_id = usuarios.id").
		Joins("JOIN puestos p ON p.id = pp.puesto_id").
		Where("p.barrio_id = ?", barrioID).
		Distinct("usuarios.*")

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("usuarios.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.Usuario
	err := base.
		Order("usuarios.nombre_completo").
		Offset((page - 1) * limit).Limit(limit).
		Preload("Permisos.Puesto").
		Find(&users).Error
	return users, total, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete removes the user row; grants cascade at the schema level. The
// referential guards (authored actas, last barrio admin) live in the service.
func (r *usuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Usuario{}, "id = ?", id).Error
}

func (r *usuarioRepo) AdminsDeBarrio(ctx context.Context, barrioID uuid.UUID) ([]model.Usuario, error) {
	var admins []model.Usuario
	err := r.db.WithContext(ctx).
		Where("rol = ? AND barrio_admin_id = ? AND activo = true", model.RolAdministrador, barrioID).
		Order("nombre_completo").
		Find(&admins).Error
	return admins, err
}

func (r *usuarioRepo) CountAdminsDeBarrio(ctx context.Context, barrioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("rol = ? AND barrio_admin_id = ? AND activo = true", model.RolAdministrador, barrioID).
		Count(&n).Error
	return n, err
}
