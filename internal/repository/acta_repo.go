package repository

import (
	"context"
	"time"

	"actalibro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActaFilter narrows ledger queries. Query matches classification or body,
// case-insensitive; nil date bounds are open-ended.
type ActaFilter struct {
	PuestoID uuid.UUID
	Query    string
	Desde    *time.Time
	Hasta    *time.Time
}

type ActaRepository interface {
	Create(ctx context.Context, a *model.Acta) error
	List(ctx context.Context, f ActaFilter, page, limit int) ([]model.Acta, int64, error)
	// ListAllFiltered returns the full (unpaged) result set for exports.
	ListAllFiltered(ctx context.Context, f ActaFilter) ([]model.Acta, error)
	FindByAdjunto(ctx context.Context, archivo string) (*model.Acta, error)
	CountByAutor(ctx context.Context, usuarioID uuid.UUID) (int64, error)
	CountByPuesto(ctx context.Context, puestoID uuid.UUID) (int64, error)
}

type actaRepo struct{ db *gorm.DB }

func NewActaRepository(db *gorm.DB) ActaRepository { return &actaRepo{db: db} }

func (r *actaRepo) Create(ctx context.Context, a *model.Acta) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *actaRepo) filtered(ctx context.Context, f ActaFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Acta{}).Where("puesto_id = ?", f.PuestoID)
	if f.Query != "" {
		term := "%" + f.Query + "%"
		q = q.Where("clasificacion ILIKE ? OR cuerpo ILIKE ?", term, term)
	}
	if f.Desde != nil {
		q = q.Where("fecha_evento >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_evento <= ?", *f.Hasta)
	}
	return q
}

func (r *actaRepo) List(ctx context.Context, f ActaFilter, page, limit int) ([]model.Acta, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var actas []model.Acta
	err := r.filtered(ctx, f).
		Preload("Autor").
		Order("fecha_creacion DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&actas).Error
	return actas, total, err
}

func (r *actaRepo) ListAllFiltered(ctx context.Context, f ActaFilter) ([]model.Acta, error) {
	var actas []model.Acta
	err := r.filtered(ctx, f).
		Preload("Autor").
		Order("fecha_creacion DESC").
		Find(&actas).Error
	return actas, err
}

func (r *actaRepo) FindByAdjunto(ctx context.Context, archivo string) (*model.Acta, error) {
	var a model.Acta
	err := r.db.WithContext(ctx).
		Preload("Puesto").
		First(&a, "adjunto = ?", archivo).Error
	return &a, err
}

func (r *actaRepo) CountByAutor(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Acta{}).
		Where("usuario_id = ?", usuarioID).
		Count(&n).Error
	return n, err
}

func (r *actaRepo) CountByPuesto(ctx context.Context, puestoID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Acta{}).
		Where("puesto_id = ?", puestoID).
		Count(&n).Error
	return n, err
}
