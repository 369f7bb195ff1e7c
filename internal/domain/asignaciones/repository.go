package asignaciones

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("asignación no encontrada")

type Repository interface {
	// GetVigente devuelve la asignación "ganadora" para el par
	// (persona, objeto): la más reciente por asignado_desde desc
	// (nulls al final), luego creado_en desc, limit 1.
	// La ventana NO se filtra acá: la evaluación de acceso necesita
	// distinguir "no existe" de "existe pero vencida".
	GetVigente(ctx context.Context, personaID, objetoID int64) (Asignacion, error)
}
