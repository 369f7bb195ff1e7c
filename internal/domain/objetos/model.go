package objetos

import (
	"strings"
	"time"
)

// Objeto es un activo trazable por RFID (herramienta, equipo, etc.).
// Estado es texto libre cargado por el ABM; se compara normalizado
// contra la lista de estados permitidos.
type Objeto struct {
	ID     int64
	Nombre string
	Tipo   string
	Estado string

	EPC string

	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// EstadosPermitidosDefault son los estados que habilitan el uso del objeto
// cuando no se configura otra lista.
var EstadosPermitidosDefault = []string{"activo", "active", "en_servicio"}

// EstadoPermitido compara el estado del objeto (trim + lowercase) contra
// la lista dada. Lista vacía => se usa el default.
func (o Objeto) EstadoPermitido(permitidos []string) bool {
	if len(permitidos) == 0 {
		permitidos = EstadosPermitidosDefault
	}
	estado := strings.ToLower(strings.TrimSpace(o.Estado))
	for _, p := range permitidos {
		if estado == strings.ToLower(strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}
