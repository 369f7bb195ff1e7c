package accesos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rfid-access/internal/domain/dispositivos"
	"rfid-access/internal/domain/iomapeos"
	"rfid-access/internal/ports/hardware"
)

// actuar aplica el gate de GPO: el pulso se intenta SOLO cuando la decisión
// autoriza, hay mapeo activo con pin, el lector tiene IP, el modo es de
// pulso y el anti-rebote no está vigente. Cada salida temprana deja su
// explicación en Message: es lo que ve el operador cuando la puerta no
// abrió.
func (s *Service) actuar(
	ctx context.Context,
	decision Decision,
	mapeo *iomapeos.Mapeo,
	lector *dispositivos.Lector,
	ahora time.Time,
) GPOAccion {
	skip := func(msg string) GPOAccion {
		return GPOAccion{Status: GPOStatusSkipped, Message: msg}
	}

	if !decision.Autorizado {
		return skip("sin actuación: acceso denegado")
	}
	if mapeo == nil {
		return skip("sin actuación: no se encontró mapeo de IO para la puerta/lector/antena")
	}
	if !mapeo.Activo {
		return skip(fmt.Sprintf("sin actuación: mapeo %d inactivo", mapeo.ID))
	}
	if mapeo.PinGPO == nil {
		return skip(fmt.Sprintf("sin actuación: mapeo %d sin pin GPO configurado", mapeo.ID))
	}
	if lector == nil || strings.TrimSpace(lector.IP) == "" {
		return skip("sin actuación: el lector no tiene IP configurada")
	}
	if !mapeo.EsModoPulso() {
		return skip(fmt.Sprintf("sin actuación: modo %q no reconocido como pulso", mapeo.Modo))
	}

	// Lock por mapeo durante chequeo → pulso → registro: dos lecturas
	// concurrentes del mismo mapeo no pueden pasar ambas el anti-rebote.
	liberar := s.debounce.Adquirir(mapeo.ID)
	defer liberar()

	if db := s.debounce.Check(mapeo.ID, ahora, mapeo.AntiReboteMs); db.Enforced {
		acc := skip(fmt.Sprintf("sin actuación: anti-rebote vigente, faltan %dms", db.RemainingMs))
		acc.Pin = mapeo.PinGPO
		acc.Debounce = &db
		return acc
	}

	pulsoMs := 0
	if mapeo.PulsoMs != nil {
		pulsoMs = *mapeo.PulsoMs
	}

	res := s.actuador.Pulso(ctx, hardware.Comando{
		IP:              lector.IP,
		Pin:             *mapeo.PinGPO,
		PulsoMs:         pulsoMs,
		EstadoFinalBajo: mapeo.EstadoFinalBajo,
		Modo:            mapeo.Modo,
	})

	acc := GPOAccion{
		Attempted:  true,
		Pin:        mapeo.PinGPO,
		URL:        res.URL,
		StatusCode: res.StatusCode,
		Message:    res.Message,
		Error:      res.Error,
		DurationMs: res.DurationMs,
	}
	if res.Success {
		acc.Status = GPOStatusSuccess
		s.debounce.RegistrarExito(mapeo.ID, ahora)
	} else {
		acc.Status = GPOStatusFailed
	}
	return acc
}
