package memory

import (
	"context"
	"sync"

	"rfid-access/internal/domain/dispositivos"
)

type dispositivosRepo struct {
	mu       sync.RWMutex
	puertas  map[int64]dispositivos.Puerta
	lectores map[int64]dispositivos.Lector
	antenas  map[int64]dispositivos.Antena
	vinculos []dispositivos.PuertaAntena
}

func NewDispositivosRepo() *dispositivosRepo {
	return &dispositivosRepo{
		puertas:  make(map[int64]dispositivos.Puerta),
		lectores: make(map[int64]dispositivos.Lector),
		antenas:  make(map[int64]dispositivos.Antena),
	}
}

func (r *dispositivosRepo) SeedPuerta(p dispositivos.Puerta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puertas[p.ID] = p
}

func (r *dispositivosRepo) SeedLector(l dispositivos.Lector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lectores[l.ID] = l
}

func (r *dispositivosRepo) SeedAntena(a dispositivos.Antena) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.antenas[a.ID] = a
}

func (r *dispositivosRepo) SeedVinculo(v dispositivos.PuertaAntena) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vinculos = append(r.vinculos, v)
}

func (r *dispositivosRepo) GetPuerta(ctx context.Context, id int64) (dispositivos.Puerta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.puertas[id]
	if !ok {
		return dispositivos.Puerta{}, dispositivos.ErrNotFound
	}
	return p, nil
}

func (r *dispositivosRepo) GetLector(ctx context.Context, id int64) (dispositivos.Lector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lectores[id]
	if !ok {
		return dispositivos.Lector{}, dispositivos.ErrNotFound
	}
	return l, nil
}

func (r *dispositivosRepo) GetAntena(ctx context.Context, id int64) (dispositivos.Antena, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.antenas[id]
	if !ok {
		return dispositivos.Antena{}, dispositivos.ErrNotFound
	}
	return a, nil
}

func (r *dispositivosRepo) GetPuertaDeAntena(ctx context.Context, antenaID int64) (dispositivos.PuertaAntena, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ganador dispositivos.PuertaAntena
	hay := false
	for _, v := range r.vinculos {
		if v.AntenaID != antenaID {
			continue
		}
		// vínculo más reciente gana
		if !hay || v.CreadoEn.After(ganador.CreadoEn) {
			ganador = v
			hay = true
		}
	}
	if !hay {
		return dispositivos.PuertaAntena{}, dispositivos.ErrNotFound
	}
	return ganador, nil
}
