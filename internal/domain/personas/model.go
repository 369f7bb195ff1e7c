package personas

import "time"

// Persona es una persona dada de alta en el sistema de accesos.
// La habilitación puede acotarse con una ventana temporal opcional;
// cuando ambos extremos existen, desde <= hasta (lo garantiza el ABM).
type Persona struct {
	ID     int64
	Nombre string

	Habilitado      bool
	HabilitadoDesde *time.Time
	HabilitadoHasta *time.Time

	// EPC vigente del tag asignado (mayúsculas, tal como se almacena).
	EPC string

	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// EPCHistorial es un vínculo histórico Persona↔EPC con ventana de validez.
// Se usa solo como fallback cuando ningún EPC vigente matchea.
type EPCHistorial struct {
	ID        int64
	PersonaID int64
	EPC       string

	ValidoDesde *time.Time
	ValidoHasta *time.Time // nil = sigue vigente

	CreadoEn time.Time
}

// VigenteEn indica si la fila histórica cubre el instante dado.
func (h EPCHistorial) VigenteEn(t time.Time) bool {
	return h.ValidoHasta == nil || !h.ValidoHasta.Before(t)
}
