package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"rfid-access/internal/domain/accesos"
)

type movimientosRepo struct {
	mu    sync.RWMutex
	filas []accesos.Movimiento
}

func NewMovimientosRepo() *movimientosRepo {
	return &movimientosRepo{}
}

func (r *movimientosRepo) Create(ctx context.Context, m accesos.Movimiento) error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("movimiento id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.filas {
		if e.ID == m.ID {
			return errors.New("movimiento already exists")
		}
	}
	r.filas = append(r.filas, m)
	return nil
}

func (r *movimientosRepo) ListRecientes(ctx context.Context, limit int) ([]accesos.Movimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	// más recientes primero
	out := make([]accesos.Movimiento, 0, limit)
	for i := len(r.filas) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.filas[i])
	}
	return out, nil
}

func (r *movimientosRepo) ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]accesos.Movimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accesos.Movimiento, 0)
	for _, m := range r.filas {
		if m.CreadoEn.Before(desde) || !m.CreadoEn.Before(hasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
