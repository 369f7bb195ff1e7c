package iomapeos

import "time"

// Modos de actuación reconocidos. Vacío equivale a pulso.
const (
	ModoPulse = "pulse"
	ModoPulso = "pulso"
)

// Mapeo es la unidad de configuración que ata (puerta?, lector?, antena?)
// a un pin GPO. Cada campo de matching puede ser nil = comodín: la fila
// aplica a cualquier valor de ese campo.
type Mapeo struct {
	ID int64

	PuertaID *int64
	LectorID *int64
	AntenaID *int64

	PinGPO          *int
	Modo            string
	PulsoMs         *int
	EstadoFinalBajo bool

	// Intervalo anti-rebote entre pulsos exitosos. nil o <=0 = sin límite.
	AntiReboteMs *int

	Activo bool

	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// EsModoPulso indica si el modo configurado dispara un pulso.
func (m Mapeo) EsModoPulso() bool {
	switch m.Modo {
	case "", ModoPulse, ModoPulso:
		return true
	default:
		return false
	}
}
