package repository

import (
	"context"

	"actalibro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BarrioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Barrio, error)
	ListAll(ctx context.Context) ([]model.Barrio, error)
	// ListPorPermisos returns the distinct barrios reachable through the
	// user's grants, ordered by name.
	ListPorPermisos(ctx context.Context, usuarioID uuid.UUID) ([]model.Barrio, error)
	Create(ctx context.Context, b *model.Barrio) error

	PuestosDeBarrio(ctx context.Context, barrioID uuid.UUID) ([]model.Puesto, error)
	FindPuesto(ctx context.Context, id uuid.UUID) (*model.Puesto, error)
	CreatePuesto(ctx context.Context, p *model.Puesto) error
	RenamePuesto(ctx context.Context, id uuid.UUID, nombre string) error
	DeletePuesto(ctx context.Context, id uuid.UUID) error
}

type barrioRepo struct{ db *gorm.DB }

func NewBarrioRepository(db *gorm.DB) BarrioRepository { return &barrioRepo{db: db} }

func (r *barrioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Barrio, error) {
	var b model.Barrio
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *barrioRepo) ListAll(ctx context.Context) ([]model.Barrio, error) {
	var barrios []model.Barrio
	err := r.db.WithContext(ctx).Order("nombre").Find(&barrios).Error
	return barrios, err
}

func (r *barrioRepo) ListPorPermisos(ctx context.Context, usuarioID uuid.UUID) ([]model.Barrio, error) {
	var barrios []model.Barrio
	err := r.db.WithContext(ctx).Model(&model.Barrio{}).
		Joins("JOIN puestos p ON p.barrio_id = barrios.id").
		Joins("JOIN permiso_puestos pp ON pp.puesto_id = p.id").
		Where("pp.usuario_id = ?", usuarioID).
		Distinct("barrios.*").
		Order("barrios.nombre").
		Find(&barrios).Error
	return barrios, err
}

func (r *barrioRepo) Create(ctx context.Context, b *model.Barrio) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *barrioRepo) PuestosDeBarrio(ctx context.Context, barrioID uuid.UUID) ([]model.Puesto, error) {
	var puestos []model.Puesto
	err := r.db.WithContext(ctx).
		Where("barrio_id = ?", barrioID).
		Order("nombre").
		Find(&puestos).Error
	return puestos, err
}

func (r *barrioRepo) FindPuesto(ctx context.Context, id uuid.UUID) (*model.Puesto, error) {
	var p model.Puesto
	err := r.db.WithContext(ctx).Preload("Barrio").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *barrioRepo) CreatePuesto(ctx context.Context, p *model.Puesto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *barrioRepo) RenamePuesto(ctx context.Context, id uuid.UUID, nombre string) error {
	return r.db.WithContext(ctx).Model(&model.Puesto{}).
		Where("id = ?", id).Update("nombre", nombre).Error
}

func (r *barrioRepo) DeletePuesto(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Puesto{}, "id = ?", id).Error
}
