package accesos

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/lecturas", ingestarLecturaHandler(svc))
	r.Get("/movimientos", listarMovimientosHandler(svc))
}

type lecturaRequest struct {
	EPC       string `json:"epc"`
	PersonaID *int64 `json:"personaId,omitempty"`
	ObjetoID  *int64 `json:"objetoId,omitempty"`
	PuertaID  *int64 `json:"puertaId,omitempty"`
	LectorID  *int64 `json:"lectorId,omitempty"`
	AntenaID  *int64 `json:"antenaId,omitempty"`
}

type lecturaResponse struct {
	MovimientoID string       `json:"movimientoId"`
	Autorizado   bool         `json:"autorizado"`
	Auditoria    Auditoria    `json:"auditoria"`
	IDs          IDsResueltos `json:"idsResueltos"`
}

// @Summary Ingresar una lectura RFID cruda y evaluarla
// @Tags accesos
func ingestarLecturaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lecturaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		epc := strings.ToUpper(strings.TrimSpace(req.EPC))
		if epc == "" && req.PersonaID == nil && req.ObjetoID == nil {
			http.Error(w, "epc required", http.StatusBadRequest)
			return
		}

		res, err := svc.Evaluar(r.Context(), Lectura{
			EPC:       epc,
			PersonaID: req.PersonaID,
			ObjetoID:  req.ObjetoID,
			PuertaID:  req.PuertaID,
			LectorID:  req.LectorID,
			AntenaID:  req.AntenaID,
		})
		if err != nil {
			// fallo de persistencia: no hay movimiento que devolver
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, lecturaResponse{
			MovimientoID: res.Movimiento.ID,
			Autorizado:   res.Auditoria.Decision.Autorizado,
			Auditoria:    res.Auditoria,
			IDs:          res.IDs,
		})
	}
}

type movimientoResponse struct {
	ID        string         `json:"id"`
	EPC       string         `json:"epc"`
	PersonaID *int64         `json:"personaId,omitempty"`
	ObjetoID  *int64         `json:"objetoId,omitempty"`
	PuertaID  *int64         `json:"puertaId,omitempty"`
	LectorID  *int64         `json:"lectorId,omitempty"`
	AntenaID  *int64         `json:"antenaId,omitempty"`
	Extra     map[string]any `json:"extra"`
	CreadoEn  time.Time      `json:"creadoEn"`
}

// @Summary Listar movimientos recientes
// @Tags accesos
func listarMovimientosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 500 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		movs, err := svc.movimientos.ListRecientes(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]movimientoResponse, 0, len(movs))
		for _, m := range movs {
			out = append(out, movimientoResponse{
				ID:        m.ID,
				EPC:       m.EPC,
				PersonaID: m.PersonaID,
				ObjetoID:  m.ObjetoID,
				PuertaID:  m.PuertaID,
				LectorID:  m.LectorID,
				AntenaID:  m.AntenaID,
				Extra:     m.Extra,
				CreadoEn:  m.CreadoEn,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
