package accesos

import (
	"context"
	"time"
)

type MovimientosRepository interface {
	Create(ctx context.Context, m Movimiento) error
	ListRecientes(ctx context.Context, limit int) ([]Movimiento, error)
	ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]Movimiento, error)
}
