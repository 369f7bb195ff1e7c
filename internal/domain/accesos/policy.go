package accesos

import (
	"fmt"
	"strings"
	"time"

	"rfid-access/internal/domain/asignaciones"
	"rfid-access/internal/domain/dispositivos"
	"rfid-access/internal/domain/objetos"
	"rfid-access/internal/domain/personas"
)

// evaluarPolitica aplica todas las reglas de forma independiente y acumula
// razones de denegación, notas y códigos. Autorizado=true solo con cero
// razones de denegación.
func (s *Service) evaluarPolitica(
	persona *personas.Persona,
	objeto *objetos.Objeto,
	asignacion *asignaciones.Asignacion,
	puerta *dispositivos.Puerta,
	lector *dispositivos.Lector,
	ahora time.Time,
) Decision {
	var (
		razones []string
		notas   []string
		codigos []string
	)
	denegar := func(codigo, razon string) {
		codigos = append(codigos, codigo)
		razones = append(razones, razon)
	}
	notar := func(codigo, nota string) {
		codigos = append(codigos, codigo)
		notas = append(notas, nota)
	}

	// Regla 1: alguna entidad tiene que haber resuelto.
	if persona == nil && objeto == nil {
		denegar(CodigoMissingEntity, "no se encontró entidad autorizada para el EPC")
	}

	// Modo configurado (resuelve el caso "solo persona" / "solo objeto").
	if persona != nil || objeto != nil {
		modo := s.politica.Modo
		if (modo == ModoRequierePersona || modo == ModoRequiereAmbos) && persona == nil {
			denegar(CodigoPersonaRequired, "la política exige una persona resuelta y el EPC no matcheó ninguna")
		}
		if (modo == ModoRequiereObjeto || modo == ModoRequiereAmbos) && objeto == nil {
			denegar(CodigoObjetoRequired, "la política exige un objeto resuelto y el EPC no matcheó ninguno")
		}
	}

	// Regla 2: habilitación de la persona.
	if persona != nil {
		if !persona.Habilitado {
			denegar(CodigoPersonaDisabled, fmt.Sprintf("persona %q deshabilitada", persona.Nombre))
		}
		if persona.HabilitadoDesde != nil && persona.HabilitadoDesde.After(ahora) {
			denegar(CodigoPersonaWindowNotStarted,
				fmt.Sprintf("habilitación de %q comienza el %s", persona.Nombre, persona.HabilitadoDesde.Format(time.RFC3339)))
		}
		if persona.HabilitadoHasta != nil && persona.HabilitadoHasta.Before(ahora) {
			denegar(CodigoPersonaWindowExpired,
				fmt.Sprintf("habilitación de %q venció el %s", persona.Nombre, persona.HabilitadoHasta.Format(time.RFC3339)))
		}
	}

	// Regla 3: estado del objeto contra la lista permitida.
	if objeto != nil && !objeto.EstadoPermitido(s.politica.EstadosPermitidos) {
		denegar(CodigoObjetoInactive, fmt.Sprintf("objeto %q en estado no permitido: %q", objeto.Nombre, objeto.Estado))
	}

	// Regla 4: asignación, solo cuando resolvieron ambos.
	if persona != nil && objeto != nil {
		switch {
		case asignacion == nil:
			if s.politica.RequiereAsignacion {
				denegar(CodigoAssignmentMissing, "no existe asignación entre la persona y el objeto")
			}
		default:
			switch asignacion.EstadoEn(ahora) {
			case asignaciones.EstadoNoIniciada:
				denegar(CodigoAssignmentNotStarted,
					fmt.Sprintf("la asignación comienza el %s", asignacion.AsignadoDesde.Format(time.RFC3339)))
			case asignaciones.EstadoVencida:
				denegar(CodigoAssignmentExpired,
					fmt.Sprintf("la asignación venció el %s", asignacion.AsignadoHasta.Format(time.RFC3339)))
			}
		}
	}

	// Regla 5: puerta y lector nunca deniegan, solo anotan.
	if puerta != nil && !puerta.Activa {
		notar(CodigoDoorInactive, fmt.Sprintf("puerta %q inactiva", puerta.Nombre))
	}
	if lector != nil {
		if !lector.Activo {
			notar(CodigoLectorInactive, fmt.Sprintf("lector %q inactivo", lector.Nombre))
		}
		if strings.TrimSpace(lector.IP) == "" {
			notar(CodigoLectorMissingIP, fmt.Sprintf("lector %q sin IP configurada", lector.Nombre))
		}
	}

	d := Decision{
		Autorizado: len(razones) == 0,
		Codigos:    dedup(codigos),
		Notas:      notas,
	}
	if d.Autorizado {
		d.Razon = "acceso autorizado"
		if len(notas) > 0 {
			d.Razon += " (" + strings.Join(notas, "; ") + ")"
		}
	} else {
		d.Razon = strings.Join(razones, "; ")
	}

	d.Persona = resumenPersona(persona)
	d.Objeto = resumenObjeto(objeto)
	d.Puerta = resumenPuerta(puerta)
	d.Lector = resumenLector(lector)
	d.Asignacion = resumenAsignacion(asignacion)
	return d
}

// dedup conserva la primera ocurrencia de cada código, en orden.
func dedup(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	vistos := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		if _, ok := vistos[c]; ok {
			continue
		}
		vistos[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func resumenPersona(p *personas.Persona) *EntidadResumen {
	if p == nil {
		return nil
	}
	activo := p.Habilitado
	return &EntidadResumen{ID: p.ID, Nombre: p.Nombre, Activo: &activo}
}

func resumenObjeto(o *objetos.Objeto) *EntidadResumen {
	if o == nil {
		return nil
	}
	return &EntidadResumen{ID: o.ID, Nombre: o.Nombre}
}

func resumenPuerta(p *dispositivos.Puerta) *EntidadResumen {
	if p == nil {
		return nil
	}
	activa := p.Activa
	return &EntidadResumen{ID: p.ID, Nombre: p.Nombre, Activo: &activa}
}

func resumenLector(l *dispositivos.Lector) *EntidadResumen {
	if l == nil {
		return nil
	}
	activo := l.Activo
	return &EntidadResumen{ID: l.ID, Nombre: l.Nombre, Activo: &activo}
}

func resumenAsignacion(a *asignaciones.Asignacion) *AsignacionResumen {
	if a == nil {
		return nil
	}
	return &AsignacionResumen{
		ID:            a.ID,
		AsignadoDesde: a.AsignadoDesde,
		AsignadoHasta: a.AsignadoHasta,
		Nota:          a.Nota,
	}
}
