package reportes

import (
	"context"
	"time"

	"rfid-access/internal/domain/accesos"
)

// Resumen son los conteos de un día de movimientos, calculados releyendo
// la auditoría embebida en cada fila.
type Resumen struct {
	Fecha       string `json:"fecha"`
	Total       int    `json:"total"`
	Autorizados int    `json:"autorizados"`
	Denegados   int    `json:"denegados"`
	Pendientes  int    `json:"pendientes"` // sin decisión embebida
}

type Service struct {
	movimientos accesos.MovimientosRepository
}

func NewService(movs accesos.MovimientosRepository) *Service {
	return &Service{movimientos: movs}
}

// ResumenDiario cuenta autorizados/denegados/pendientes del día dado
// (fecha en la zona horaria del proceso).
func (s *Service) ResumenDiario(ctx context.Context, fecha time.Time) (Resumen, error) {
	desde := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	hasta := desde.AddDate(0, 0, 1)

	movs, err := s.movimientos.ListPorFecha(ctx, desde, hasta)
	if err != nil {
		return Resumen{}, err
	}
	return Contar(movs, desde.Format("2006-01-02")), nil
}

// Contar clasifica movimientos por su decisión embebida. Un movimiento sin
// auditoría parseable cuenta como pendiente, no como error: filas viejas o
// escritas por otros ingestores no tienen por qué tenerla.
func Contar(movs []accesos.Movimiento, fecha string) Resumen {
	r := Resumen{Fecha: fecha, Total: len(movs)}
	for _, m := range movs {
		a, err := accesos.ParseAuditoria(m.Extra)
		if err != nil {
			r.Pendientes++
			continue
		}
		if a.Decision.Autorizado {
			r.Autorizados++
		} else {
			r.Denegados++
		}
	}
	return r
}
