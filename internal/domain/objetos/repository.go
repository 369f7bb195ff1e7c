package objetos

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("objeto no encontrado")

type Repository interface {
	GetByID(ctx context.Context, id int64) (Objeto, error)
	GetByEPC(ctx context.Context, epc string) (Objeto, error)
}
