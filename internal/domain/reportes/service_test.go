package reportes

import (
	"testing"
	"time"

	"rfid-access/internal/domain/accesos"
)

func movConDecision(t *testing.T, autorizado bool) accesos.Movimiento {
	t.Helper()
	extra, err := accesos.EmbederAuditoria(nil, accesos.Auditoria{
		EvaluadoEn: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Decision:   accesos.Decision{Autorizado: autorizado, Codigos: []string{}},
		GPO:        accesos.GPOAccion{Status: accesos.GPOStatusSkipped},
	})
	if err != nil {
		t.Fatalf("EmbederAuditoria: %v", err)
	}
	return accesos.Movimiento{ID: "m", Extra: extra}
}

func TestContar_ClasificaPorDecisionEmbebida(t *testing.T) {
	movs := []accesos.Movimiento{
		movConDecision(t, true),
		movConDecision(t, true),
		movConDecision(t, false),
		{ID: "legacy", Extra: map[string]any{"otro": "dato"}}, // sin auditoría
		{ID: "vacio"},
	}

	r := Contar(movs, "2026-03-10")
	if r.Total != 5 {
		t.Fatalf("total: got %d", r.Total)
	}
	if r.Autorizados != 2 {
		t.Fatalf("autorizados: got %d", r.Autorizados)
	}
	if r.Denegados != 1 {
		t.Fatalf("denegados: got %d", r.Denegados)
	}
	if r.Pendientes != 2 {
		t.Fatalf("pendientes: got %d", r.Pendientes)
	}
	if r.Fecha != "2026-03-10" {
		t.Fatalf("fecha: got %s", r.Fecha)
	}
}
