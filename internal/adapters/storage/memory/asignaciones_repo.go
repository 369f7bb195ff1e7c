package memory

import (
	"context"
	"sync"

	"rfid-access/internal/domain/asignaciones"
)

type asignacionesRepo struct {
	mu    sync.RWMutex
	filas []asignaciones.Asignacion
}

func NewAsignacionesRepo() *asignacionesRepo {
	return &asignacionesRepo{}
}

func (r *asignacionesRepo) Seed(a asignaciones.Asignacion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filas = append(r.filas, a)
}

func (r *asignacionesRepo) GetVigente(ctx context.Context, personaID, objetoID int64) (asignaciones.Asignacion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ganadora asignaciones.Asignacion
	hay := false
	for _, a := range r.filas {
		if a.PersonaID != personaID || a.ObjetoID != objetoID {
			continue
		}
		if !hay || asignacionMasReciente(a, ganadora) {
			ganadora = a
			hay = true
		}
	}
	if !hay {
		return asignaciones.Asignacion{}, asignaciones.ErrNotFound
	}
	return ganadora, nil
}

// asignacionMasReciente replica asignado_desde desc nulls-last, creado_en desc.
func asignacionMasReciente(a, b asignaciones.Asignacion) bool {
	switch {
	case a.AsignadoDesde != nil && b.AsignadoDesde == nil:
		return true
	case a.AsignadoDesde == nil && b.AsignadoDesde != nil:
		return false
	case a.AsignadoDesde != nil && b.AsignadoDesde != nil && !a.AsignadoDesde.Equal(*b.AsignadoDesde):
		return a.AsignadoDesde.After(*b.AsignadoDesde)
	default:
		return a.CreadoEn.After(b.CreadoEn)
	}
}
