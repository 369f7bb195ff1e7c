package personas

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound distingue "no hay fila" de un fallo de persistencia: para el
// motor de accesos la ausencia no es error, un fallo de query sí.
var ErrNotFound = errors.New("persona no encontrada")

type Repository interface {
	GetByID(ctx context.Context, id int64) (Persona, error)
	GetByEPC(ctx context.Context, epc string) (Persona, error)

	// GetHistorialByEPC devuelve la fila histórica más reciente cuyo EPC
	// matchea y cuya ventana cubre el instante dado: orden por
	// valido_desde desc (nulls al final), luego creado_en desc, limit 1.
	GetHistorialByEPC(ctx context.Context, epc string, en time.Time) (EPCHistorial, error)
}
