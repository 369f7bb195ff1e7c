package accesos

import (
	"context"
	"strings"
	"testing"
	"time"

	"rfid-access/internal/domain/asignaciones"
	"rfid-access/internal/domain/dispositivos"
	"rfid-access/internal/domain/iomapeos"
	"rfid-access/internal/domain/objetos"
	"rfid-access/internal/domain/personas"
	"rfid-access/internal/ports/hardware"
)

// -------------------------
// Fakes (in-memory)
// -------------------------

type fakePersonas struct {
	byID      map[int64]personas.Persona
	historial []personas.EPCHistorial
}

func (f *fakePersonas) GetByID(ctx context.Context, id int64) (personas.Persona, error) {
	p, ok := f.byID[id]
	if !ok {
		return personas.Persona{}, personas.ErrNotFound
	}
	return p, nil
}

func (f *fakePersonas) GetByEPC(ctx context.Context, epc string) (personas.Persona, error) {
	for _, p := range f.byID {
		if p.EPC == epc {
			return p, nil
		}
	}
	return personas.Persona{}, personas.ErrNotFound
}

func (f *fakePersonas) GetHistorialByEPC(ctx context.Context, epc string, en time.Time) (personas.EPCHistorial, error) {
	var ganadora personas.EPCHistorial
	hay := false
	for _, h := range f.historial {
		if h.EPC != epc || !h.VigenteEn(en) {
			continue
		}
		if !hay || h.CreadoEn.After(ganadora.CreadoEn) {
			ganadora = h
			hay = true
		}
	}
	if !hay {
		return personas.EPCHistorial{}, personas.ErrNotFound
	}
	return ganadora, nil
}

type fakeObjetos struct {
	byID map[int64]objetos.Objeto
}

func (f *fakeObjetos) GetByID(ctx context.Context, id int64) (objetos.Objeto, error) {
	o, ok := f.byID[id]
	if !ok {
		return objetos.Objeto{}, objetos.ErrNotFound
	}
	return o, nil
}

func (f *fakeObjetos) GetByEPC(ctx context.Context, epc string) (objetos.Objeto, error) {
	for _, o := range f.byID {
		if o.EPC == epc {
			return o, nil
		}
	}
	return objetos.Objeto{}, objetos.ErrNotFound
}

type fakeAsignaciones struct {
	filas []asignaciones.Asignacion
}

func (f *fakeAsignaciones) GetVigente(ctx context.Context, personaID, objetoID int64) (asignaciones.Asignacion, error) {
	var ganadora asignaciones.Asignacion
	hay := false
	for _, a := range f.filas {
		if a.PersonaID != personaID || a.ObjetoID != objetoID {
			continue
		}
		if !hay || a.CreadoEn.After(ganadora.CreadoEn) {
			ganadora = a
			hay = true
		}
	}
	if !hay {
		return asignaciones.Asignacion{}, asignaciones.ErrNotFound
	}
	return ganadora, nil
}

type fakeDispositivos struct {
	puertas  map[int64]dispositivos.Puerta
	lectores map[int64]dispositivos.Lector
	antenas  map[int64]dispositivos.Antena
	vinculos []dispositivos.PuertaAntena
}

func (f *fakeDispositivos) GetPuerta(ctx context.Context, id int64) (dispositivos.Puerta, error) {
	p, ok := f.puertas[id]
	if !ok {
		return dispositivos.Puerta{}, dispositivos.ErrNotFound
	}
	return p, nil
}

func (f *fakeDispositivos) GetLector(ctx context.Context, id int64) (dispositivos.Lector, error) {
	l, ok := f.lectores[id]
	if !ok {
		return dispositivos.Lector{}, dispositivos.ErrNotFound
	}
	return l, nil
}

func (f *fakeDispositivos) GetAntena(ctx context.Context, id int64) (dispositivos.Antena, error) {
	a, ok := f.antenas[id]
	if !ok {
		return dispositivos.Antena{}, dispositivos.ErrNotFound
	}
	return a, nil
}

func (f *fakeDispositivos) GetPuertaDeAntena(ctx context.Context, antenaID int64) (dispositivos.PuertaAntena, error) {
	var ganador dispositivos.PuertaAntena
	hay := false
	for _, v := range f.vinculos {
		if v.AntenaID != antenaID {
			continue
		}
		if !hay || v.CreadoEn.After(ganador.CreadoEn) {
			ganador = v
			hay = true
		}
	}
	if !hay {
		return dispositivos.PuertaAntena{}, dispositivos.ErrNotFound
	}
	return ganador, nil
}

type fakeMapeos struct {
	filas []iomapeos.Mapeo
}

func (f *fakeMapeos) FindMejorMatch(ctx context.Context, puertaID, lectorID, antenaID *int64) (iomapeos.Mapeo, error) {
	var (
		ganador iomapeos.Mapeo
		rango   iomapeos.Rango
		hay     bool
	)
	for _, m := range f.filas {
		if !m.Activo || !iomapeos.Matchea(m, puertaID, lectorID, antenaID) {
			continue
		}
		rg := iomapeos.RangoDe(m, puertaID, lectorID, antenaID)
		if !hay || rg.Menor(rango) {
			ganador, rango, hay = m, rg, true
		}
	}
	if !hay {
		return iomapeos.Mapeo{}, iomapeos.ErrNotFound
	}
	return ganador, nil
}

type fakeMovimientos struct {
	filas []Movimiento
}

func (f *fakeMovimientos) Create(ctx context.Context, m Movimiento) error {
	f.filas = append(f.filas, m)
	return nil
}

func (f *fakeMovimientos) ListRecientes(ctx context.Context, limit int) ([]Movimiento, error) {
	return f.filas, nil
}

func (f *fakeMovimientos) ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]Movimiento, error) {
	return f.filas, nil
}

type fakeActuador struct {
	resultado hardware.Resultado
	comandos  []hardware.Comando
}

func (f *fakeActuador) Pulso(ctx context.Context, cmd hardware.Comando) hardware.Resultado {
	f.comandos = append(f.comandos, cmd)
	return f.resultado
}

// -------------------------
// Fixture
// -------------------------

type fixture struct {
	personas     *fakePersonas
	objetos      *fakeObjetos
	asignaciones *fakeAsignaciones
	dispositivos *fakeDispositivos
	mapeos       *fakeMapeos
	movimientos  *fakeMovimientos
	actuador     *fakeActuador
	svc          *Service
}

func newFixture(politica Politica) *fixture {
	f := &fixture{
		personas:     &fakePersonas{byID: map[int64]personas.Persona{}},
		objetos:      &fakeObjetos{byID: map[int64]objetos.Objeto{}},
		asignaciones: &fakeAsignaciones{},
		dispositivos: &fakeDispositivos{
			puertas:  map[int64]dispositivos.Puerta{},
			lectores: map[int64]dispositivos.Lector{},
			antenas:  map[int64]dispositivos.Antena{},
		},
		mapeos:      &fakeMapeos{},
		movimientos: &fakeMovimientos{},
		actuador:    &fakeActuador{resultado: hardware.Resultado{Success: true, StatusCode: 200, Message: "ok"}},
	}
	f.svc = NewService(Deps{
		Personas:     f.personas,
		Objetos:      f.objetos,
		Asignaciones: f.asignaciones,
		Dispositivos: f.dispositivos,
		Mapeos:       f.mapeos,
		Movimientos:  f.movimientos,
		Actuador:     f.actuador,
		Politica:     politica,
	})
	return f
}

var ahora = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func (f *fixture) congelar(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func tp(t time.Time) *time.Time { return &t }
func ip(v int64) *int64         { return &v }
func in(v int) *int             { return &v }

// escenario completo: persona habilitada + objeto activo + asignación +
// puerta/lector/antena + mapeo activo con pin
func escenarioCompleto(f *fixture) {
	lectorID := int64(3)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "AABBCC01"}
	f.objetos.byID[2] = objetos.Objeto{ID: 2, Nombre: "Notebook", Estado: "activo", EPC: "AABBCC01"}
	f.asignaciones.filas = append(f.asignaciones.filas, asignaciones.Asignacion{
		ID: 7, PersonaID: 1, ObjetoID: 2, CreadoEn: ahora.Add(-24 * time.Hour),
	})
	f.dispositivos.puertas[5] = dispositivos.Puerta{ID: 5, Nombre: "Principal", Activa: true}
	f.dispositivos.lectores[3] = dispositivos.Lector{ID: 3, Nombre: "L1", IP: "10.0.0.9", Activo: true}
	f.dispositivos.antenas[4] = dispositivos.Antena{ID: 4, LectorID: &lectorID, Indice: 1, Activa: true}
	f.dispositivos.vinculos = append(f.dispositivos.vinculos, dispositivos.PuertaAntena{
		ID: 1, PuertaID: 5, AntenaID: 4, CreadoEn: ahora.Add(-48 * time.Hour),
	})
	f.mapeos.filas = append(f.mapeos.filas, iomapeos.Mapeo{
		ID: 9, PuertaID: ip(5), PinGPO: in(2), Activo: true,
		AntiReboteMs: in(1000), PulsoMs: in(500),
		CreadoEn: ahora.Add(-72 * time.Hour), ActualizadoEn: ahora.Add(-72 * time.Hour),
	})
}

func contiene(codigos []string, c string) bool {
	for _, x := range codigos {
		if x == c {
			return true
		}
	}
	return false
}

// -------------------------
// Tests de política
// -------------------------

func TestEvaluar_EPCDesconocido_MissingEntity(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "NOEXISTE"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoMissingEntity) {
		t.Fatalf("expected code %s, got %v", CodigoMissingEntity, res.Auditoria.Decision.Codigos)
	}
	if len(f.actuador.comandos) != 0 {
		t.Fatalf("expected no pulse on denial")
	}
	if len(f.movimientos.filas) != 1 {
		t.Fatalf("expected movimiento persisted even on denial")
	}
}

func TestEvaluar_PersonaDeshabilitada(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	p := f.personas.byID[1]
	p.Habilitado = false
	f.personas.byID[1] = p

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoPersonaDisabled) {
		t.Fatalf("expected %s, got %v", CodigoPersonaDisabled, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_VentanaPersona(t *testing.T) {
	casos := []struct {
		nombre string
		desde  *time.Time
		hasta  *time.Time
		codigo string
	}{
		{"vencida", nil, tp(ahora.Add(-time.Hour)), CodigoPersonaWindowExpired},
		{"no iniciada", tp(ahora.Add(time.Hour)), nil, CodigoPersonaWindowNotStarted},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			f := newFixture(Politica{})
			f.congelar(ahora)
			escenarioCompleto(f)
			p := f.personas.byID[1]
			p.HabilitadoDesde = c.desde
			p.HabilitadoHasta = c.hasta
			f.personas.byID[1] = p

			res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01"})
			if err != nil {
				t.Fatalf("Evaluar error: %v", err)
			}
			if res.Auditoria.Decision.Autorizado {
				t.Fatalf("expected denied")
			}
			if !contiene(res.Auditoria.Decision.Codigos, c.codigo) {
				t.Fatalf("expected %s, got %v", c.codigo, res.Auditoria.Decision.Codigos)
			}
		})
	}
}

func TestEvaluar_ObjetoEstadoNoPermitido(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	o := f.objetos.byID[2]
	o.Estado = "EN_REPARACION"
	f.objetos.byID[2] = o

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoObjetoInactive) {
		t.Fatalf("expected %s, got %v", CodigoObjetoInactive, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_ObjetoEstado_CaseInsensitive(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	o := f.objetos.byID[2]
	o.Estado = "  ACTIVO "
	f.objetos.byID[2] = o

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
}

func TestEvaluar_AsignacionFaltante(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: true})
	f.congelar(ahora)
	escenarioCompleto(f)
	f.asignaciones.filas = nil

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoAssignmentMissing) {
		t.Fatalf("expected %s, got %v", CodigoAssignmentMissing, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_AsignacionNoRequerida_PasaSinFila(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: false})
	f.congelar(ahora)
	escenarioCompleto(f)
	f.asignaciones.filas = nil

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
}

func TestEvaluar_AsignacionVencida(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: true})
	f.congelar(ahora)
	escenarioCompleto(f)
	f.asignaciones.filas[0].AsignadoHasta = tp(ahora.Add(-time.Minute))

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoAssignmentExpired) {
		t.Fatalf("expected %s, got %v", CodigoAssignmentExpired, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_AsignacionNoIniciada(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: true})
	f.congelar(ahora)
	escenarioCompleto(f)
	f.asignaciones.filas[0].AsignadoDesde = tp(ahora.Add(time.Hour))

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoAssignmentNotStarted) {
		t.Fatalf("expected %s, got %v", CodigoAssignmentNotStarted, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_ModoRequiereObjeto_SoloPersona(t *testing.T) {
	f := newFixture(Politica{Modo: ModoRequiereObjeto})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "SOLOPERSONA"}

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "SOLOPERSONA"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected denied")
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoObjetoRequired) {
		t.Fatalf("expected %s, got %v", CodigoObjetoRequired, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_ModoAny_SoloPersona_Autoriza(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "SOLOPERSONA"}

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "SOLOPERSONA"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
}

// -------------------------
// Procedencia
// -------------------------

func TestEvaluar_Provenance_RFIDeHistorial(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "VIGENTE"}
	f.personas.byID[2] = personas.Persona{ID: 2, Nombre: "Beto", Habilitado: true}
	f.personas.historial = append(f.personas.historial, personas.EPCHistorial{
		ID: 1, PersonaID: 2, EPC: "VIEJO", ValidoHasta: nil, CreadoEn: ahora.Add(-time.Hour),
	})

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "VIGENTE"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Fuentes["persona"] != FuenteRFID {
		t.Fatalf("expected fuente rfid, got %s", res.Auditoria.Fuentes["persona"])
	}

	res, err = f.svc.Evaluar(context.Background(), Lectura{EPC: "VIEJO"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Fuentes["persona"] != FuenteHistorial {
		t.Fatalf("expected fuente historial, got %s", res.Auditoria.Fuentes["persona"])
	}
	if res.IDs.PersonaID == nil || *res.IDs.PersonaID != 2 {
		t.Fatalf("expected persona 2 via historial, got %v", res.IDs.PersonaID)
	}
}

func TestEvaluar_Provenance_HistorialVencido_NoResuelve(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	f.personas.byID[2] = personas.Persona{ID: 2, Nombre: "Beto", Habilitado: true}
	f.personas.historial = append(f.personas.historial, personas.EPCHistorial{
		ID: 1, PersonaID: 2, EPC: "VIEJO", ValidoHasta: tp(ahora.Add(-time.Minute)), CreadoEn: ahora.Add(-time.Hour),
	})

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "VIEJO"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoMissingEntity) {
		t.Fatalf("expected missing-entity, got %v", res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_Provenance_PayloadGanaAlEPC(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "AAA"}
	f.personas.byID[2] = personas.Persona{ID: 2, Nombre: "Beto", Habilitado: true, EPC: "BBB"}

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AAA", PersonaID: ip(2)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.Fuentes["persona"] != FuentePayload {
		t.Fatalf("expected fuente payload, got %s", res.Auditoria.Fuentes["persona"])
	}
	if *res.IDs.PersonaID != 2 {
		t.Fatalf("expected persona 2, got %d", *res.IDs.PersonaID)
	}
}

func TestEvaluar_PuertaInferidaDesdeAntena(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.IDs.PuertaID == nil || *res.IDs.PuertaID != 5 {
		t.Fatalf("expected puerta 5 inferida, got %v", res.IDs.PuertaID)
	}
	if res.Auditoria.Fuentes["puerta"] != FuentePuertaAntena {
		t.Fatalf("expected fuente puerta-antena, got %s", res.Auditoria.Fuentes["puerta"])
	}
	if res.IDs.LectorID == nil || *res.IDs.LectorID != 3 {
		t.Fatalf("expected lector 3 heredado de antena, got %v", res.IDs.LectorID)
	}
	if res.Auditoria.Fuentes["lector"] != FuenteAntena {
		t.Fatalf("expected fuente antena, got %s", res.Auditoria.Fuentes["lector"])
	}
}

func TestEvaluar_BackfillDesdeMapeo(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: false})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "AAA"}
	f.dispositivos.puertas[5] = dispositivos.Puerta{ID: 5, Nombre: "Lateral", Activa: true}
	f.dispositivos.lectores[3] = dispositivos.Lector{ID: 3, Nombre: "L1", IP: "10.0.0.9", Activo: true}
	// mapeo comodín total salvo puerta fija: al no venir puerta en el
	// payload, el id se back-fillea desde el mapeo
	f.mapeos.filas = append(f.mapeos.filas, iomapeos.Mapeo{
		ID: 1, PuertaID: ip(5), LectorID: ip(3), PinGPO: in(1), Activo: true,
	})

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AAA"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.IDs.PuertaID == nil || *res.IDs.PuertaID != 5 {
		t.Fatalf("expected puerta 5 back-filled, got %v", res.IDs.PuertaID)
	}
	if res.Auditoria.Fuentes["puerta"] != FuenteMapping {
		t.Fatalf("expected fuente mapping, got %s", res.Auditoria.Fuentes["puerta"])
	}
	if res.Auditoria.Fuentes["lector"] != FuenteMapping {
		t.Fatalf("expected fuente mapping para lector, got %s", res.Auditoria.Fuentes["lector"])
	}
}

// -------------------------
// Actuación y anti-rebote
// -------------------------

func TestEvaluar_EndToEnd_PulsoExitoso(t *testing.T) {
	f := newFixture(Politica{RequiereAsignacion: true})
	f.congelar(ahora)
	escenarioCompleto(f)

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
	gpo := res.Auditoria.GPO
	if !gpo.Attempted || gpo.Status != GPOStatusSuccess {
		t.Fatalf("expected attempted success, got %+v", gpo)
	}
	if len(f.actuador.comandos) != 1 {
		t.Fatalf("expected 1 pulse, got %d", len(f.actuador.comandos))
	}
	cmd := f.actuador.comandos[0]
	if cmd.IP != "10.0.0.9" || cmd.Pin != 2 || cmd.PulsoMs != 500 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if res.Auditoria.Mapeo == nil || res.Auditoria.Mapeo.Especificidad != "puerta:5|lector:*|antena:*" {
		t.Fatalf("unexpected mapeo resumen: %+v", res.Auditoria.Mapeo)
	}
}

func TestEvaluar_LectorSinIP_SkipConMensaje(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	l := f.dispositivos.lectores[3]
	l.IP = ""
	f.dispositivos.lectores[3] = l

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoLectorMissingIP) {
		t.Fatalf("expected nota %s, got %v", CodigoLectorMissingIP, res.Auditoria.Decision.Codigos)
	}
	gpo := res.Auditoria.GPO
	if gpo.Attempted || gpo.Status != GPOStatusSkipped {
		t.Fatalf("expected skipped, got %+v", gpo)
	}
	if !strings.Contains(gpo.Message, "IP") {
		t.Fatalf("expected message about missing IP, got %q", gpo.Message)
	}
}

func TestEvaluar_PuertaInactiva_NoDeniega(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	p := f.dispositivos.puertas[5]
	p.Activa = false
	f.dispositivos.puertas[5] = p

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("door-inactive must not deny, got: %s", res.Auditoria.Decision.Razon)
	}
	if !contiene(res.Auditoria.Decision.Codigos, CodigoDoorInactive) {
		t.Fatalf("expected nota %s, got %v", CodigoDoorInactive, res.Auditoria.Decision.Codigos)
	}
}

func TestEvaluar_Debounce_SuprimeYLuegoPermite(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	lectura := Lectura{EPC: "AABBCC01", AntenaID: ip(4)}

	// t0: pulso exitoso registrado
	res, err := f.svc.Evaluar(context.Background(), lectura)
	if err != nil {
		t.Fatalf("Evaluar #1 error: %v", err)
	}
	if res.Auditoria.GPO.Status != GPOStatusSuccess {
		t.Fatalf("expected first pulse success, got %+v", res.Auditoria.GPO)
	}

	// t0+500ms: anti-rebote de 1000ms vigente
	f.congelar(ahora.Add(500 * time.Millisecond))
	res, err = f.svc.Evaluar(context.Background(), lectura)
	if err != nil {
		t.Fatalf("Evaluar #2 error: %v", err)
	}
	gpo := res.Auditoria.GPO
	if gpo.Attempted || gpo.Status != GPOStatusSkipped {
		t.Fatalf("expected skipped by debounce, got %+v", gpo)
	}
	if gpo.Debounce == nil || !gpo.Debounce.Enforced {
		t.Fatalf("expected debounce enforced, got %+v", gpo.Debounce)
	}
	if gpo.Debounce.RemainingMs != 500 {
		t.Fatalf("expected 500ms remaining, got %d", gpo.Debounce.RemainingMs)
	}
	if len(f.actuador.comandos) != 1 {
		t.Fatalf("expected still 1 pulse, got %d", len(f.actuador.comandos))
	}

	// t0+1500ms: ventana vencida, se pulsa de nuevo
	f.congelar(ahora.Add(1500 * time.Millisecond))
	res, err = f.svc.Evaluar(context.Background(), lectura)
	if err != nil {
		t.Fatalf("Evaluar #3 error: %v", err)
	}
	if res.Auditoria.GPO.Status != GPOStatusSuccess {
		t.Fatalf("expected pulse after window, got %+v", res.Auditoria.GPO)
	}
	if len(f.actuador.comandos) != 2 {
		t.Fatalf("expected 2 pulses, got %d", len(f.actuador.comandos))
	}
}

func TestEvaluar_PulsoFallido_NoRegistraDebounce(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)
	f.actuador.resultado = hardware.Resultado{Success: false, StatusCode: 503, Error: "unavailable"}
	lectura := Lectura{EPC: "AABBCC01", AntenaID: ip(4)}

	res, err := f.svc.Evaluar(context.Background(), lectura)
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if res.Auditoria.GPO.Status != GPOStatusFailed {
		t.Fatalf("expected failed, got %+v", res.Auditoria.GPO)
	}

	// el fallo no arma anti-rebote: el próximo intento pulsa de nuevo
	f.congelar(ahora.Add(100 * time.Millisecond))
	f.actuador.resultado = hardware.Resultado{Success: true, StatusCode: 200}
	res, err = f.svc.Evaluar(context.Background(), lectura)
	if err != nil {
		t.Fatalf("Evaluar #2 error: %v", err)
	}
	if res.Auditoria.GPO.Status != GPOStatusSuccess {
		t.Fatalf("expected success after failure, got %+v", res.Auditoria.GPO)
	}
}

func TestEvaluar_SinMapeo_SkipConMensaje(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	f.personas.byID[1] = personas.Persona{ID: 1, Nombre: "Ana", Habilitado: true, EPC: "AAA"}

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AAA"})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if !res.Auditoria.Decision.Autorizado {
		t.Fatalf("expected granted, got: %s", res.Auditoria.Decision.Razon)
	}
	gpo := res.Auditoria.GPO
	if gpo.Attempted || gpo.Status != GPOStatusSkipped {
		t.Fatalf("expected skipped, got %+v", gpo)
	}
	if !strings.Contains(gpo.Message, "mapeo") {
		t.Fatalf("expected message about missing mapping, got %q", gpo.Message)
	}
}

func TestEvaluar_MovimientoInmutableConAuditoria(t *testing.T) {
	f := newFixture(Politica{})
	f.congelar(ahora)
	escenarioCompleto(f)

	res, err := f.svc.Evaluar(context.Background(), Lectura{EPC: "AABBCC01", AntenaID: ip(4)})
	if err != nil {
		t.Fatalf("Evaluar error: %v", err)
	}
	if len(f.movimientos.filas) != 1 {
		t.Fatalf("expected 1 movimiento, got %d", len(f.movimientos.filas))
	}
	mov := f.movimientos.filas[0]
	if mov.ID != res.Movimiento.ID {
		t.Fatalf("expected returned movimiento to be the persisted one")
	}
	a, err := ParseAuditoria(mov.Extra)
	if err != nil {
		t.Fatalf("ParseAuditoria error: %v", err)
	}
	if a.Decision.Autorizado != res.Auditoria.Decision.Autorizado {
		t.Fatalf("embedded decision mismatch")
	}
}
