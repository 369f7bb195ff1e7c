package accesos

import "time"

// ClaveAuditoria es la clave dentro de Extra bajo la cual se persiste la
// auditoría. Los colaboradores de reportes/dashboards parsean esta
// estructura; ver ParseAuditoria.
const ClaveAuditoria = "control_acceso"

// Movimiento es una fila por lectura RFID evaluada. Se crea una sola vez
// por evaluación y nunca se muta (el borrado es acción administrativa,
// no parte de la evaluación).
type Movimiento struct {
	ID  string
	EPC string

	PersonaID *int64
	ObjetoID  *int64
	PuertaID  *int64
	LectorID  *int64
	AntenaID  *int64

	// Extra es el campo libre del movimiento; la auditoría va embebida
	// bajo ClaveAuditoria.
	Extra map[string]any

	CreadoEn time.Time
}
