package iomapeos

import (
	"fmt"
	"strings"
)

// Criterio de especificidad por campo, menor = más específico:
//
//	0: match exacto, o comodín cuando el input también es desconocido
//	1: comodín en el mapeo pero input conocido (pierde contra exacto)
//	2: resto, es decir mismatch real (excluido por Matchea) o campo fijado
//	   en el mapeo con input desconocido (candidato, pero el menos específico)
type Rango struct {
	Puerta int
	Lector int
	Antena int
}

func rangoCampo(input, campo *int64) int {
	switch {
	case input == nil && campo == nil:
		return 0
	case input != nil && campo != nil && *input == *campo:
		return 0
	case campo == nil:
		return 1
	default:
		return 2
	}
}

// RangoDe calcula el rango de un mapeo contra los ids conocidos del evento.
func RangoDe(m Mapeo, puertaID, lectorID, antenaID *int64) Rango {
	return Rango{
		Puerta: rangoCampo(puertaID, m.PuertaID),
		Lector: rangoCampo(lectorID, m.LectorID),
		Antena: rangoCampo(antenaID, m.AntenaID),
	}
}

// Menor compara lexicográficamente (puerta, lector, antena).
func (r Rango) Menor(o Rango) bool {
	if r.Puerta != o.Puerta {
		return r.Puerta < o.Puerta
	}
	if r.Lector != o.Lector {
		return r.Lector < o.Lector
	}
	return r.Antena < o.Antena
}

func (r Rango) Igual(o Rango) bool {
	return r.Puerta == o.Puerta && r.Lector == o.Lector && r.Antena == o.Antena
}

// Matchea indica si el mapeo es candidato para los ids dados: por cada
// campo, input desconocido, comodín, o igualdad exacta. Mismo predicado
// que el WHERE del adapter de postgres.
func Matchea(m Mapeo, puertaID, lectorID, antenaID *int64) bool {
	ok := func(input, campo *int64) bool {
		return input == nil || campo == nil || *input == *campo
	}
	return ok(puertaID, m.PuertaID) && ok(lectorID, m.LectorID) && ok(antenaID, m.AntenaID)
}

// Especificidad arma la cadena de observabilidad del mapeo ganador,
// p.ej. "puerta:5|lector:*|antena:42". No participa de la selección.
func Especificidad(m Mapeo) string {
	campo := func(nombre string, v *int64) string {
		if v == nil {
			return nombre + ":*"
		}
		return fmt.Sprintf("%s:%d", nombre, *v)
	}
	return strings.Join([]string{
		campo("puerta", m.PuertaID),
		campo("lector", m.LectorID),
		campo("antena", m.AntenaID),
	}, "|")
}
