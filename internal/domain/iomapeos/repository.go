package iomapeos

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("mapeo no encontrado")

type Repository interface {
	// FindMejorMatch devuelve el único mapeo activo ganador para los ids
	// conocidos del evento (nil = desconocido), según el rango de
	// especificidad; empates por actualizado_en desc, luego creado_en
	// desc. ErrNotFound cuando no hay candidato.
	FindMejorMatch(ctx context.Context, puertaID, lectorID, antenaID *int64) (Mapeo, error)
}
