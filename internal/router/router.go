package router

import (
	"database/sql"
	"net/http"

	mem "rfid-access/internal/adapters/storage/memory"
	pg "rfid-access/internal/adapters/storage/postgres"
	"rfid-access/internal/config"
	"rfid-access/internal/domain/accesos"
	"rfid-access/internal/domain/asignaciones"
	"rfid-access/internal/domain/dispositivos"
	"rfid-access/internal/domain/iomapeos"
	"rfid-access/internal/domain/objetos"
	"rfid-access/internal/domain/personas"
	"rfid-access/internal/domain/reportes"
	"rfid-access/internal/platform/logger"
	"rfid-access/internal/ports/hardware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Config config.Config
	Log    logger.Logger

	// Actuador de hardware; obligatorio para producción, reemplazable en
	// tests.
	Actuador hardware.Actuador

	// Opcional: si viene, usa Postgres. Si no, intenta config.DSN y cae
	// a in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	var (
		personasRepo     personas.Repository
		objetosRepo      objetos.Repository
		asignacionesRepo asignaciones.Repository
		dispositivosRepo dispositivos.Repository
		mapeosRepo       iomapeos.Repository
		movimientosRepo  accesos.MovimientosRepository
	)

	db := opts.DB
	if db == nil && opts.Config.DSN != "" {
		opened, err := pg.Open(opts.Config.DSN)
		if err == nil {
			db = opened
		} else {
			log.Error("no se pudo abrir postgres, usando repos in-memory", map[string]any{"error": err.Error()})
		}
	}

	if db != nil {
		personasRepo = pg.NewPersonasRepo(db)
		objetosRepo = pg.NewObjetosRepo(db)
		asignacionesRepo = pg.NewAsignacionesRepo(db)
		dispositivosRepo = pg.NewDispositivosRepo(db)
		mapeosRepo = pg.NewIOMapeosRepo(db)
		movimientosRepo = pg.NewMovimientosRepo(db)
	} else {
		personasRepo = mem.NewPersonasRepo()
		objetosRepo = mem.NewObjetosRepo()
		asignacionesRepo = mem.NewAsignacionesRepo()
		dispositivosRepo = mem.NewDispositivosRepo()
		mapeosRepo = mem.NewIOMapeosRepo()
		movimientosRepo = mem.NewMovimientosRepo()
	}

	accesosSvc := accesos.NewService(accesos.Deps{
		Personas:     personasRepo,
		Objetos:      objetosRepo,
		Asignaciones: asignacionesRepo,
		Dispositivos: dispositivosRepo,
		Mapeos:       mapeosRepo,
		Movimientos:  movimientosRepo,
		Actuador:     opts.Actuador,
		Politica: accesos.Politica{
			EstadosPermitidos:  opts.Config.EstadosPermitidos,
			RequiereAsignacion: opts.Config.RequiereAsignacion,
			Modo:               opts.Config.Modo,
		},
		Log: log,
	})
	reportesSvc := reportes.NewService(movimientosRepo)

	accesos.RegisterRoutes(r, accesosSvc)
	reportes.RegisterRoutes(r, reportesSvc)

	return r
}
