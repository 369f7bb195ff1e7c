package dispositivos

import "time"

// Puerta es un acceso físico controlado.
type Puerta struct {
	ID     int64
	Nombre string
	Activa bool

	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// Lector es un lector RFID físico. IP puede estar vacía si el equipo
// todavía no fue plaqueado en red; sin IP no hay actuación de GPO.
type Lector struct {
	ID     int64
	Nombre string
	IP     string
	Activo bool

	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// Antena es una antena de un lector (índice físico en el equipo).
type Antena struct {
	ID       int64
	LectorID *int64
	Indice   int
	Activa   bool

	CreadoEn time.Time
}

// PuertaAntena vincula una antena con la puerta que cubre. Varias antenas
// pueden apuntar a la misma puerta; para inferir puerta desde antena se usa
// el vínculo más reciente.
type PuertaAntena struct {
	ID       int64
	PuertaID int64
	AntenaID int64

	CreadoEn time.Time
}
