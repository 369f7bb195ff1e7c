package dispositivos

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("dispositivo no encontrado")

type Repository interface {
	GetPuerta(ctx context.Context, id int64) (Puerta, error)
	GetLector(ctx context.Context, id int64) (Lector, error)
	GetAntena(ctx context.Context, id int64) (Antena, error)

	// GetPuertaDeAntena infiere la puerta cubierta por una antena usando
	// el vínculo puerta-antena más reciente (creado_en desc, limit 1).
	GetPuertaDeAntena(ctx context.Context, antenaID int64) (PuertaAntena, error)
}
