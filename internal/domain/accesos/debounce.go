package accesos

import (
	"sync"
	"time"
)

// DebounceLedger guarda, por id de mapeo, el timestamp del último pulso
// exitoso. Es estado en memoria de proceso: se pierde al reiniciar.
// El anti-rebote es supresión de ráfagas, no una garantía.
//
// El chequeo y el registro NO son atómicos por sí solos: dos lecturas
// concurrentes del mismo mapeo podrían pasar ambas el chequeo antes de que
// una registre el éxito. Por eso el ledger expone Adquirir: un lock por id
// de mapeo que el evaluador mantiene durante chequeo → pulso → registro.
// Mapeos distintos nunca se bloquean entre sí.
type DebounceLedger struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
	last  map[int64]int64 // mapeoID -> unix ms del último éxito
}

func NewDebounceLedger() *DebounceLedger {
	return &DebounceLedger{
		locks: make(map[int64]*sync.Mutex),
		last:  make(map[int64]int64),
	}
}

// Adquirir toma el lock del mapeo y devuelve la función que lo libera.
func (d *DebounceLedger) Adquirir(mapeoID int64) func() {
	d.mu.Lock()
	l, ok := d.locks[mapeoID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[mapeoID] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Check evalúa el anti-rebote del mapeo al instante dado. Sin intervalo
// configurado (nil o <=0) nunca se aplica.
func (d *DebounceLedger) Check(mapeoID int64, ahora time.Time, antiReboteMs *int) DebounceEstado {
	if antiReboteMs == nil || *antiReboteMs <= 0 {
		return DebounceEstado{}
	}

	d.mu.Lock()
	lastMs, ok := d.last[mapeoID]
	d.mu.Unlock()
	if !ok {
		return DebounceEstado{}
	}

	restante := int64(*antiReboteMs) - (ahora.UnixMilli() - lastMs)
	if restante <= 0 {
		return DebounceEstado{}
	}

	t := time.UnixMilli(lastMs)
	return DebounceEstado{
		Enforced:      true,
		RemainingMs:   restante,
		LastSuccessAt: &t,
	}
}

// RegistrarExito anota el instante del pulso confirmado. Llamar solo
// después de un pulso exitoso de hardware.
func (d *DebounceLedger) RegistrarExito(mapeoID int64, ahora time.Time) {
	d.mu.Lock()
	d.last[mapeoID] = ahora.UnixMilli()
	d.mu.Unlock()
}
