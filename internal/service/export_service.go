package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"actalibro/internal/dto"
	"actalibro/internal/infra"
	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/google/uuid"
)

// ExportService renders the ledger of the resolved puesto as a downloadable
// document. Access goes through the same resolver as the listing: whatever the
// caller cannot see, the export cannot contain.
type ExportService interface {
	ExportarPDF(ctx context.Context, actor *model.Usuario, f dto.ActaFilter, w io.Writer) (string, error)
	ExportarXLSX(ctx context.Context, actor *model.Usuario, f dto.ActaFilter, w io.Writer) (string, error)
}

type exportService struct {
	actas   repository.ActaRepository
	barrios repository.BarrioRepository
	acceso  AccesoService
}

func NewExportService(actas repository.ActaRepository, barrios repository.BarrioRepository, acceso AccesoService) ExportService {
	return &exportService{actas: actas, barrios: barrios, acceso: acceso}
}

// resolver applies the access resolution and returns the barrio, selected
// puesto, the filtered actas, and a human-readable date range label.
func (s *exportService) resolver(ctx context.Context, actor *model.Usuario, f dto.ActaFilter) (*model.Barrio, *model.Puesto, []model.Acta, string, error) {
	barrioID, err := uuid.Parse(f.BarrioID)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("barrio_id inválido: %w", err)
	}
	var puestoSolicitado *uuid.UUID
	if f.PuestoID != "" {
		pid, err := uuid.Parse(f.PuestoID)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("puesto_id inválido: %w", err)
		}
		puestoSolicitado = &pid
	}

	acceso, err := s.acceso.Resolver(ctx, actor, barrioID, puestoSolicitado)
	if err != nil {
		return nil, nil, nil, "", err
	}
	barrio, err := s.barrios.FindByID(ctx, barrioID)
	if err != nil {
		return nil, nil, nil, "", err
	}

	filter := repository.ActaFilter{PuestoID: acceso.PuestoActual.ID, Query: f.Query}
	var rango string
	if f.Desde != "" {
		d, err := time.Parse("2006-01-02", f.Desde)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("desde inválido: %w", err)
		}
		filter.Desde = &d
	}
	if f.Hasta != "" {
		h, err := time.Parse("2006-01-02", f.Hasta)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("hasta inválido: %w", err)
		}
		filter.Hasta = &h
	}
	switch {
	case filter.Desde != nil && filter.Hasta != nil:
		rango = fmt.Sprintf("%s a %s", filter.Desde.Format("02/01/2006"), filter.Hasta.Format("02/01/2006"))
	case filter.Desde != nil:
		rango = fmt.Sprintf("desde %s", filter.Desde.Format("02/01/2006"))
	case filter.Hasta != nil:
		rango = fmt.Sprintf("hasta %s", filter.Hasta.Format("02/01/2006"))
	}

	actas, err := s.actas.ListAllFiltered(ctx, filter)
	if err != nil {
		return nil, nil, nil, "", err
	}
	return barrio, acceso.PuestoActual, actas, rango, nil
}

// nombreArchivo builds the download filename: libro_<puesto>_<fecha>.<ext>.
func nombreArchivo(puesto *model.Puesto, ext string) string {
	return fmt.Sprintf("libro_%s_%s.%s", sanitizar(puesto.Nombre), time.Now().Format("20060102"), ext)
}

func sanitizar(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	return string(out)
}

func (s *exportService) ExportarPDF(ctx context.Context, actor *model.Usuario, f dto.ActaFilter, w io.Writer) (string, error) {
	barrio, puesto, actas, rango, err := s.resolver(ctx, actor, f)
	if err != nil {
		return "", err
	}
	if err := infra.GenerateLibroPDF(w, barrio, puesto, actas, rango); err != nil {
		return "", err
	}
	return nombreArchivo(puesto, "pdf"), nil
}

func (s *exportService) ExportarXLSX(ctx context.Context, actor *model.Usuario, f dto.ActaFilter, w io.Writer) (string, error) {
	barrio, puesto, actas, _, err := s.resolver(ctx, actor, f)
	if err != nil {
		return "", err
	}
	if err := infra.GenerateLibroXLSX(w, barrio, puesto, actas); err != nil {
		return "", err
	}
	return nombreArchivo(puesto, "xlsx"), nil
}
