package memory

import (
	"context"
	"sync"
	"time"

	"rfid-access/internal/domain/personas"
)

// Los repos in-memory existen para dev y tests: el ABM real vive en otro
// sistema, así que acá solo hay seed + lecturas.
type personasRepo struct {
	mu        sync.RWMutex
	byID      map[int64]personas.Persona
	historial []personas.EPCHistorial
}

func NewPersonasRepo() *personasRepo {
	return &personasRepo{byID: make(map[int64]personas.Persona)}
}

// Seed carga una persona (solo dev/tests).
func (r *personasRepo) Seed(p personas.Persona) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
}

// SeedHistorial carga una fila histórica Persona↔EPC (solo dev/tests).
func (r *personasRepo) SeedHistorial(h personas.EPCHistorial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historial = append(r.historial, h)
}

func (r *personasRepo) GetByID(ctx context.Context, id int64) (personas.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return personas.Persona{}, personas.ErrNotFound
	}
	return p, nil
}

func (r *personasRepo) GetByEPC(ctx context.Context, epc string) (personas.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.EPC == epc {
			return p, nil
		}
	}
	return personas.Persona{}, personas.ErrNotFound
}

func (r *personasRepo) GetHistorialByEPC(ctx context.Context, epc string, en time.Time) (personas.EPCHistorial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ganadora personas.EPCHistorial
	hay := false
	for _, h := range r.historial {
		if h.EPC != epc || !h.VigenteEn(en) {
			continue
		}
		if !hay || historialMasReciente(h, ganadora) {
			ganadora = h
			hay = true
		}
	}
	if !hay {
		return personas.EPCHistorial{}, personas.ErrNotFound
	}
	return ganadora, nil
}

// historialMasReciente replica el orden del query SQL: valido_desde desc
// con nulls al final, luego creado_en desc.
func historialMasReciente(a, b personas.EPCHistorial) bool {
	switch {
	case a.ValidoDesde != nil && b.ValidoDesde == nil:
		return true
	case a.ValidoDesde == nil && b.ValidoDesde != nil:
		return false
	case a.ValidoDesde != nil && b.ValidoDesde != nil && !a.ValidoDesde.Equal(*b.ValidoDesde):
		return a.ValidoDesde.After(*b.ValidoDesde)
	default:
		return a.CreadoEn.After(b.CreadoEn)
	}
}
