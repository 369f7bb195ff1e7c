package hardware

import (
	"context"
	"time"
)

// Comando es un pulso de GPO a disparar en un lector físico.
type Comando struct {
	IP              string
	Pin             int
	PulsoMs         int
	EstadoFinalBajo bool
	Modo            string
}

// Resultado captura el resultado de un comando, exitoso o no.
// Los fallos de red/timeout/no-2xx se reportan acá, nunca como error Go:
// un pulso fallido no debe abortar la evaluación que lo disparó.
type Resultado struct {
	Success    bool
	StatusCode int
	Message    string
	Error      string
	URL        string
	StartedAt  time.Time
	FinishedAt time.Time
	DurationMs int64
}

type Actuador interface {
	Pulso(ctx context.Context, cmd Comando) Resultado
}
