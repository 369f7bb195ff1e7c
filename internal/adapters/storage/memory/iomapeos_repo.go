package memory

import (
	"context"
	"sync"

	"rfid-access/internal/domain/iomapeos"
)

type iomapeosRepo struct {
	mu    sync.RWMutex
	filas []iomapeos.Mapeo
}

func NewIOMapeosRepo() *iomapeosRepo {
	return &iomapeosRepo{}
}

func (r *iomapeosRepo) Seed(m iomapeos.Mapeo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filas = append(r.filas, m)
}

// FindMejorMatch usa el mismo rango de especificidad del dominio que el
// adapter de postgres expresa en SQL.
func (r *iomapeosRepo) FindMejorMatch(ctx context.Context, puertaID, lectorID, antenaID *int64) (iomapeos.Mapeo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		ganador iomapeos.Mapeo
		rango   iomapeos.Rango
		hay     bool
	)
	for _, m := range r.filas {
		if !m.Activo || !iomapeos.Matchea(m, puertaID, lectorID, antenaID) {
			continue
		}
		rg := iomapeos.RangoDe(m, puertaID, lectorID, antenaID)
		switch {
		case !hay || rg.Menor(rango):
			ganador, rango, hay = m, rg, true
		case rg.Igual(rango) && masReciente(m, ganador):
			ganador, rango = m, rg
		}
	}
	if !hay {
		return iomapeos.Mapeo{}, iomapeos.ErrNotFound
	}
	return ganador, nil
}

// masReciente desempata por actualizado_en desc, luego creado_en desc.
func masReciente(a, b iomapeos.Mapeo) bool {
	if !a.ActualizadoEn.Equal(b.ActualizadoEn) {
		return a.ActualizadoEn.After(b.ActualizadoEn)
	}
	return a.CreadoEn.After(b.CreadoEn)
}
