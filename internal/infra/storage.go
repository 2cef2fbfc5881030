package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AdjuntoStorage persists acta attachments on local disk. Files are stored
// under a random uuid-based name — the client filename only contributes its
// extension, so collisions and path traversal are not possible.
type AdjuntoStorage struct {
	dir     string
	maxSize int64
}

var ErrAdjuntoMuyGrande = errors.New("el archivo excede el tamaño máximo permitido")

func NewAdjuntoStorage(dir string, maxUploadMB int) (*AdjuntoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &AdjuntoStorage{dir: dir, maxSize: int64(maxUploadMB) << 20}, nil
}

// Guardar streams src to disk and returns the stored filename.
func (s *AdjuntoStorage) Guardar(src io.Reader, originalName string, size int64) (string, error) {
	if size > s.maxSize {
		return "", ErrAdjuntoMuyGrande
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = "" // not a real extension
	}
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against clients lying about Content-Length.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst.Name())
		return "", ErrAdjuntoMuyGrande
	}
	return name, nil
}

// Ruta resolves a stored filename back to its absolute path, refusing
// anything that escapes the upload dir.
func (s *AdjuntoStorage) Ruta(name string) (string, error) {
	if name != filepath.Base(name) || name == "" || name == "." {
		return "", errors.New("nombre de archivo inválido")
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
