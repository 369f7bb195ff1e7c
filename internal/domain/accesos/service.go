package accesos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rfid-access/internal/domain/asignaciones"
	"rfid-access/internal/domain/dispositivos"
	"rfid-access/internal/domain/iomapeos"
	"rfid-access/internal/domain/objetos"
	"rfid-access/internal/domain/personas"
	"rfid-access/internal/platform/logger"
	"rfid-access/internal/ports/hardware"
)

// Politica es la configuración de evaluación del motor.
type Politica struct {
	// Estados de objeto que habilitan el acceso; vacío = default del
	// paquete objetos.
	EstadosPermitidos []string

	// Si es true (default), persona+objeto sin asignación vigente = denegado.
	RequiereAsignacion bool

	// Qué hacer cuando resuelve solo persona o solo objeto; ver ModoAny etc.
	Modo string
}

// Service es el motor de evaluación de accesos: una llamada a Evaluar por
// lectura RFID entrante.
type Service struct {
	personas     personas.Repository
	objetos      objetos.Repository
	asignaciones asignaciones.Repository
	dispositivos dispositivos.Repository
	mapeos       iomapeos.Repository
	movimientos  MovimientosRepository

	actuador hardware.Actuador
	debounce *DebounceLedger

	politica Politica
	log      logger.Logger
	now      func() time.Time
}

type Deps struct {
	Personas     personas.Repository
	Objetos      objetos.Repository
	Asignaciones asignaciones.Repository
	Dispositivos dispositivos.Repository
	Mapeos       iomapeos.Repository
	Movimientos  MovimientosRepository
	Actuador     hardware.Actuador
	Politica     Politica
	Log          logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	if d.Politica.Modo == "" {
		d.Politica.Modo = ModoAny
	}
	return &Service{
		personas:     d.Personas,
		objetos:      d.Objetos,
		asignaciones: d.Asignaciones,
		dispositivos: d.Dispositivos,
		mapeos:       d.Mapeos,
		movimientos:  d.Movimientos,
		actuador:     d.Actuador,
		debounce:     NewDebounceLedger(),
		politica:     d.Politica,
		log:          log,
		now:          time.Now,
	}
}

// entidad resuelta con su procedencia
type resuelto[T any] struct {
	valor  *T
	fuente Fuente
}

// Evaluar es el punto de entrada del motor: resuelve entidades, aplica la
// política, elige el mapeo de IO, dispara el pulso si corresponde y deja
// el movimiento con su auditoría embebida. El único error duro es el de
// persistencia; todo lo demás queda expresado dentro de la auditoría.
func (s *Service) Evaluar(ctx context.Context, l Lectura) (Resultado, error) {
	ahora := s.now()
	epc := strings.TrimSpace(l.EPC)

	// 1. Resolución concurrente de persona, objeto y antena: queries de
	// solo lectura sin dependencia entre sí.
	var (
		persona resuelto[personas.Persona]
		objeto  resuelto[objetos.Objeto]
		antena  resuelto[dispositivos.Antena]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persona, err = s.resolverPersona(gctx, l, epc, ahora)
		return err
	})
	g.Go(func() error {
		var err error
		objeto, err = s.resolverObjeto(gctx, l, epc)
		return err
	})
	g.Go(func() error {
		var err error
		antena, err = s.resolverAntena(gctx, l)
		return err
	})
	if err := g.Wait(); err != nil {
		return Resultado{}, err
	}

	fuentes := map[string]Fuente{}
	if persona.valor != nil {
		fuentes["persona"] = persona.fuente
	}
	if objeto.valor != nil {
		fuentes["objeto"] = objeto.fuente
	}
	if antena.valor != nil {
		fuentes["antena"] = antena.fuente
	}

	// 2. Ids conocidos de puerta/lector/antena, previos al mapeo.
	puertaID, fuentePuerta, err := s.inferirPuerta(ctx, l, antena.valor)
	if err != nil {
		return Resultado{}, err
	}
	lectorID, fuenteLector := inferirLector(l, antena.valor)

	var antenaID *int64
	if l.AntenaID != nil {
		antenaID = l.AntenaID
	} else if antena.valor != nil {
		id := antena.valor.ID
		antenaID = &id
	}

	// 3. Mapeo de IO más específico. Puede back-fillear ids faltantes, por
	// eso las filas finales de puerta/lector se buscan recién después.
	var mapeo *iomapeos.Mapeo
	m, err := s.mapeos.FindMejorMatch(ctx, puertaID, lectorID, antenaID)
	switch {
	case err == nil:
		mapeo = &m
	case errors.Is(err, iomapeos.ErrNotFound):
		// sin mapeo: se decide igual, solo no hay actuación
	default:
		return Resultado{}, err
	}

	if mapeo != nil {
		if puertaID == nil && mapeo.PuertaID != nil {
			puertaID = mapeo.PuertaID
			fuentePuerta = FuenteMapping
		}
		if lectorID == nil && mapeo.LectorID != nil {
			lectorID = mapeo.LectorID
			fuenteLector = FuenteMapping
		}
		if antenaID == nil && mapeo.AntenaID != nil {
			antenaID = mapeo.AntenaID
			fuentes["antena"] = FuenteMapping
		}
	}

	// 4. Filas finales de puerta y lector.
	puerta, err := s.buscarPuerta(ctx, puertaID)
	if err != nil {
		return Resultado{}, err
	}
	if puerta != nil {
		fuentes["puerta"] = fuentePuerta
	}
	lector, err := s.buscarLector(ctx, lectorID)
	if err != nil {
		return Resultado{}, err
	}
	if lector != nil {
		fuentes["lector"] = fuenteLector
	}

	// 5. Asignación vigente, solo con persona y objeto resueltos.
	var asignacion *asignaciones.Asignacion
	if persona.valor != nil && objeto.valor != nil {
		a, err := s.asignaciones.GetVigente(ctx, persona.valor.ID, objeto.valor.ID)
		switch {
		case err == nil:
			asignacion = &a
		case errors.Is(err, asignaciones.ErrNotFound):
		default:
			return Resultado{}, err
		}
	}

	// 6. Política.
	decision := s.evaluarPolitica(persona.valor, objeto.valor, asignacion, puerta, lector, ahora)

	// 7. Gate de GPO + anti-rebote + actuación.
	gpo := s.actuar(ctx, decision, mapeo, lector, ahora)

	auditoria := Auditoria{
		EvaluadoEn: ahora,
		Decision:   decision,
		GPO:        gpo,
		Fuentes:    fuentes,
	}
	if mapeo != nil {
		auditoria.Mapeo = &MapeoResumen{
			ID:            mapeo.ID,
			PinGPO:        mapeo.PinGPO,
			Modo:          mapeo.Modo,
			PulsoMs:       mapeo.PulsoMs,
			AntiReboteMs:  mapeo.AntiReboteMs,
			Activo:        mapeo.Activo,
			Especificidad: iomapeos.Especificidad(*mapeo),
		}
	}

	ids := IDsResueltos{
		PuertaID: puertaID,
		LectorID: lectorID,
		AntenaID: antenaID,
	}
	if persona.valor != nil {
		id := persona.valor.ID
		ids.PersonaID = &id
	}
	if objeto.valor != nil {
		id := objeto.valor.ID
		ids.ObjetoID = &id
	}

	extra, err := EmbederAuditoria(nil, auditoria)
	if err != nil {
		return Resultado{}, err
	}

	mov := Movimiento{
		ID:        uuid.NewString(),
		EPC:       epc,
		PersonaID: ids.PersonaID,
		ObjetoID:  ids.ObjetoID,
		PuertaID:  ids.PuertaID,
		LectorID:  ids.LectorID,
		AntenaID:  ids.AntenaID,
		Extra:     extra,
		CreadoEn:  ahora,
	}
	if err := s.movimientos.Create(ctx, mov); err != nil {
		// único fallo duro: sin movimiento no hay auditoría persistida
		return Resultado{}, fmt.Errorf("persistir movimiento: %w", err)
	}

	s.log.Info("lectura evaluada", map[string]any{
		"epc":        epc,
		"autorizado": decision.Autorizado,
		"codigos":    strings.Join(decision.Codigos, ","),
		"gpo":        gpo.Status,
	})

	return Resultado{Movimiento: mov, Auditoria: auditoria, IDs: ids}, nil
}

// resolverPersona aplica la cadena payload → rfid → historial.
func (s *Service) resolverPersona(ctx context.Context, l Lectura, epc string, ahora time.Time) (resuelto[personas.Persona], error) {
	if l.PersonaID != nil {
		p, err := s.personas.GetByID(ctx, *l.PersonaID)
		if err == nil {
			return resuelto[personas.Persona]{valor: &p, fuente: FuentePayload}, nil
		}
		if !errors.Is(err, personas.ErrNotFound) {
			return resuelto[personas.Persona]{}, err
		}
		// id inexistente en payload: se sigue con el EPC
	}

	if epc == "" {
		return resuelto[personas.Persona]{fuente: FuenteUnknown}, nil
	}

	p, err := s.personas.GetByEPC(ctx, epc)
	if err == nil {
		return resuelto[personas.Persona]{valor: &p, fuente: FuenteRFID}, nil
	}
	if !errors.Is(err, personas.ErrNotFound) {
		return resuelto[personas.Persona]{}, err
	}

	h, err := s.personas.GetHistorialByEPC(ctx, epc, ahora)
	if err != nil {
		if errors.Is(err, personas.ErrNotFound) {
			return resuelto[personas.Persona]{fuente: FuenteUnknown}, nil
		}
		return resuelto[personas.Persona]{}, err
	}
	p, err = s.personas.GetByID(ctx, h.PersonaID)
	if err != nil {
		if errors.Is(err, personas.ErrNotFound) {
			return resuelto[personas.Persona]{fuente: FuenteUnknown}, nil
		}
		return resuelto[personas.Persona]{}, err
	}
	return resuelto[personas.Persona]{valor: &p, fuente: FuenteHistorial}, nil
}

// resolverObjeto aplica payload → rfid; sin fallback histórico.
func (s *Service) resolverObjeto(ctx context.Context, l Lectura, epc string) (resuelto[objetos.Objeto], error) {
	if l.ObjetoID != nil {
		o, err := s.objetos.GetByID(ctx, *l.ObjetoID)
		if err == nil {
			return resuelto[objetos.Objeto]{valor: &o, fuente: FuentePayload}, nil
		}
		if !errors.Is(err, objetos.ErrNotFound) {
			return resuelto[objetos.Objeto]{}, err
		}
	}

	if epc == "" {
		return resuelto[objetos.Objeto]{fuente: FuenteUnknown}, nil
	}

	o, err := s.objetos.GetByEPC(ctx, epc)
	if err == nil {
		return resuelto[objetos.Objeto]{valor: &o, fuente: FuenteRFID}, nil
	}
	if !errors.Is(err, objetos.ErrNotFound) {
		return resuelto[objetos.Objeto]{}, err
	}
	return resuelto[objetos.Objeto]{fuente: FuenteUnknown}, nil
}

// resolverAntena es solo por id explícito.
func (s *Service) resolverAntena(ctx context.Context, l Lectura) (resuelto[dispositivos.Antena], error) {
	if l.AntenaID == nil {
		return resuelto[dispositivos.Antena]{fuente: FuenteUnknown}, nil
	}
	a, err := s.dispositivos.GetAntena(ctx, *l.AntenaID)
	if err == nil {
		return resuelto[dispositivos.Antena]{valor: &a, fuente: FuentePayload}, nil
	}
	if !errors.Is(err, dispositivos.ErrNotFound) {
		return resuelto[dispositivos.Antena]{}, err
	}
	return resuelto[dispositivos.Antena]{fuente: FuenteUnknown}, nil
}

// inferirPuerta: id explícito, o el vínculo puerta-antena más reciente.
func (s *Service) inferirPuerta(ctx context.Context, l Lectura, antena *dispositivos.Antena) (*int64, Fuente, error) {
	if l.PuertaID != nil {
		return l.PuertaID, FuentePayload, nil
	}
	if antena == nil {
		return nil, FuenteUnknown, nil
	}
	pa, err := s.dispositivos.GetPuertaDeAntena(ctx, antena.ID)
	if err != nil {
		if errors.Is(err, dispositivos.ErrNotFound) {
			return nil, FuenteUnknown, nil
		}
		return nil, FuenteUnknown, err
	}
	id := pa.PuertaID
	return &id, FuentePuertaAntena, nil
}

// inferirLector: id explícito, o el lector padre de la antena.
func inferirLector(l Lectura, antena *dispositivos.Antena) (*int64, Fuente) {
	if l.LectorID != nil {
		return l.LectorID, FuentePayload
	}
	if antena != nil && antena.LectorID != nil {
		id := *antena.LectorID
		return &id, FuenteAntena
	}
	return nil, FuenteUnknown
}

func (s *Service) buscarPuerta(ctx context.Context, id *int64) (*dispositivos.Puerta, error) {
	if id == nil {
		return nil, nil
	}
	p, err := s.dispositivos.GetPuerta(ctx, *id)
	if err != nil {
		if errors.Is(err, dispositivos.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) buscarLector(ctx context.Context, id *int64) (*dispositivos.Lector, error) {
	if id == nil {
		return nil, nil
	}
	l, err := s.dispositivos.GetLector(ctx, *id)
	if err != nil {
		if errors.Is(err, dispositivos.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
