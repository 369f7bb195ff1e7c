package reportes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/reportes/diario", resumenDiarioHandler(svc))
}

// @Summary Resumen diario de accesos (autorizados/denegados/pendientes)
// @Tags reportes
func resumenDiarioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fecha := time.Now()
		if v := strings.TrimSpace(r.URL.Query().Get("fecha")); v != "" {
			parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				http.Error(w, "fecha inválida, formato: YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			fecha = parsed
		}

		res, err := svc.ResumenDiario(r.Context(), fecha)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(res)
	}
}
