package memory

import (
	"context"
	"sync"

	"rfid-access/internal/domain/objetos"
)

type objetosRepo struct {
	mu   sync.RWMutex
	byID map[int64]objetos.Objeto
}

func NewObjetosRepo() *objetosRepo {
	return &objetosRepo{byID: make(map[int64]objetos.Objeto)}
}

func (r *objetosRepo) Seed(o objetos.Objeto) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[o.ID] = o
}

func (r *objetosRepo) GetByID(ctx context.Context, id int64) (objetos.Objeto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return objetos.Objeto{}, objetos.ErrNotFound
	}
	return o, nil
}

func (r *objetosRepo) GetByEPC(ctx context.Context, epc string) (objetos.Objeto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.EPC == epc {
			return o, nil
		}
	}
	return objetos.Objeto{}, objetos.ErrNotFound
}
