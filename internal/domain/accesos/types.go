package accesos

import "time"

// Fuente indica cómo se resolvió cada entidad (procedencia).
type Fuente string

const (
	FuentePayload      Fuente = "payload"
	FuenteRFID         Fuente = "rfid"
	FuenteHistorial    Fuente = "historial"
	FuentePuertaAntena Fuente = "puerta-antena"
	FuenteAntena       Fuente = "antena"
	FuenteMapping      Fuente = "mapping"
	FuenteDefault      Fuente = "default"
	FuenteUnknown      Fuente = "unknown"
)

// Códigos estables de decisión. Los consumen reportes y alertas:
// no cambiar sin migrar a los colaboradores.
const (
	CodigoMissingEntity           = "missing-entity"
	CodigoPersonaDisabled         = "persona-disabled"
	CodigoPersonaWindowNotStarted = "persona-window-not-started"
	CodigoPersonaWindowExpired    = "persona-window-expired"
	CodigoObjetoInactive          = "objeto-inactive"
	CodigoAssignmentMissing       = "assignment-missing"
	CodigoAssignmentNotStarted    = "assignment-not-started"
	CodigoAssignmentExpired       = "assignment-expired"
	CodigoPersonaRequired         = "persona-required"
	CodigoObjetoRequired          = "objeto-required"

	// Códigos de nota: no deniegan, solo agregan contexto.
	CodigoDoorInactive    = "door-inactive"
	CodigoLectorInactive  = "lector-inactive"
	CodigoLectorMissingIP = "lector-missing-ip"
)

// Modo de política para EPCs que resuelven solo persona o solo objeto.
const (
	ModoAny             = "any"
	ModoRequierePersona = "require-person"
	ModoRequiereObjeto  = "require-asset"
	ModoRequiereAmbos   = "require-both"
)

// Lectura es el evento crudo de lectura RFID que entra al motor.
// El EPC se matchea tal como se almacena (el ingestor normaliza a
// mayúsculas antes de llamar); los ids explícitos son pistas opcionales.
type Lectura struct {
	EPC       string
	PersonaID *int64
	ObjetoID  *int64
	PuertaID  *int64
	LectorID  *int64
	AntenaID  *int64
}

// EntidadResumen es el resumen por entidad que viaja en la decisión.
type EntidadResumen struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre,omitempty"`
	Activo *bool  `json:"activo,omitempty"`
}

// AsignacionResumen resume la asignación evaluada.
type AsignacionResumen struct {
	ID            int64      `json:"id"`
	AsignadoDesde *time.Time `json:"asignadoDesde,omitempty"`
	AsignadoHasta *time.Time `json:"asignadoHasta,omitempty"`
	Nota          string     `json:"nota,omitempty"`
}

// Decision es el veredicto de la política, con razón legible y códigos
// estables para manejo programático.
type Decision struct {
	Autorizado bool     `json:"authorized"`
	Razon      string   `json:"reason"`
	Codigos    []string `json:"codes"`
	Notas      []string `json:"notes,omitempty"`

	Persona    *EntidadResumen    `json:"persona,omitempty"`
	Objeto     *EntidadResumen    `json:"objeto,omitempty"`
	Puerta     *EntidadResumen    `json:"puerta,omitempty"`
	Lector     *EntidadResumen    `json:"lector,omitempty"`
	Asignacion *AsignacionResumen `json:"asignacion,omitempty"`
}

// MapeoResumen es el resumen del mapeo ganador para auditoría.
type MapeoResumen struct {
	ID            int64  `json:"id"`
	PinGPO        *int   `json:"pin,omitempty"`
	Modo          string `json:"modo,omitempty"`
	PulsoMs       *int   `json:"pulsoMs,omitempty"`
	AntiReboteMs  *int   `json:"antiReboteMs,omitempty"`
	Activo        bool   `json:"activo"`
	Especificidad string `json:"especificidad"`
}

// DebounceEstado describe el estado del anti-rebote al momento del gate.
type DebounceEstado struct {
	Enforced      bool       `json:"enforced"`
	RemainingMs   int64      `json:"remainingMs,omitempty"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
}

// GPOAccion es el registro de la acción de hardware (intentada o no).
// Message siempre explica el resultado, incluso cuando Attempted=false:
// es la respuesta del operador a "¿por qué no abrió la puerta?".
type GPOAccion struct {
	Attempted  bool            `json:"attempted"`
	Status     string          `json:"status"` // success | failed | skipped
	Message    string          `json:"message,omitempty"`
	Pin        *int            `json:"pin,omitempty"`
	URL        string          `json:"url,omitempty"`
	StatusCode int             `json:"statusCode,omitempty"`
	Error      string          `json:"error,omitempty"`
	DurationMs int64           `json:"durationMs,omitempty"`
	Debounce   *DebounceEstado `json:"debounce,omitempty"`
}

const (
	GPOStatusSuccess = "success"
	GPOStatusFailed  = "failed"
	GPOStatusSkipped = "skipped"
)

// Auditoria es el objeto inmutable que queda embebido en el movimiento.
type Auditoria struct {
	EvaluadoEn time.Time         `json:"evaluatedAt"`
	Decision   Decision          `json:"decision"`
	Mapeo      *MapeoResumen     `json:"mapping,omitempty"`
	GPO        GPOAccion         `json:"gpo"`
	Fuentes    map[string]Fuente `json:"sources"`
}

// IDsResueltos son los ids finales de cada entidad tras resolución y
// back-fill de mapeo; nil = no se pudo resolver.
type IDsResueltos struct {
	PersonaID *int64 `json:"personaId"`
	ObjetoID  *int64 `json:"objetoId"`
	PuertaID  *int64 `json:"puertaId"`
	LectorID  *int64 `json:"lectorId"`
	AntenaID  *int64 `json:"antenaId"`
}

// Resultado es lo que devuelve el motor por cada lectura evaluada.
type Resultado struct {
	Movimiento Movimiento
	Auditoria  Auditoria
	IDs        IDsResueltos
}
