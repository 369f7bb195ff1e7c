package asignaciones

import "time"

// Asignacion vincula una Persona con un Objeto, con ventana de validez
// opcional. Puede haber varias filas para el mismo par; para evaluar
// accesos se usa solo la más reciente (ver Repository.GetVigente).
type Asignacion struct {
	ID        int64
	PersonaID int64
	ObjetoID  int64

	AsignadoDesde *time.Time
	AsignadoHasta *time.Time

	Nota string

	CreadoEn time.Time
}

// Estado de la asignación respecto de un instante dado.
type Estado int

const (
	EstadoVigente Estado = iota
	EstadoNoIniciada
	EstadoVencida
)

// EstadoEn evalúa la ventana de la asignación contra el instante dado.
func (a Asignacion) EstadoEn(t time.Time) Estado {
	if a.AsignadoDesde != nil && a.AsignadoDesde.After(t) {
		return EstadoNoIniciada
	}
	if a.AsignadoHasta != nil && a.AsignadoHasta.Before(t) {
		return EstadoVencida
	}
	return EstadoVigente
}
