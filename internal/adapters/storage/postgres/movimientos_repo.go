package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rfid-access/internal/domain/accesos"
)

type MovimientosRepo struct {
	db *sql.DB
}

func NewMovimientosRepo(db *sql.DB) *MovimientosRepo {
	return &MovimientosRepo{db: db}
}

// Create inserta el movimiento con la auditoría embebida en extra (JSONB).
// Append-only: no hay Update.
func (r *MovimientosRepo) Create(ctx context.Context, m accesos.Movimiento) error {
	extra, err := json.Marshal(m.Extra)
	if err != nil {
		return fmt.Errorf("serializar extra: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO movimientos (
			id, epc,
			persona_id, objeto_id, puerta_id, lector_id, antena_id,
			extra, creado_en
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.EPC,
		toNullInt64(m.PersonaID),
		toNullInt64(m.ObjetoID),
		toNullInt64(m.PuertaID),
		toNullInt64(m.LectorID),
		toNullInt64(m.AntenaID),
		extra,
		m.CreadoEn,
	)
	return err
}

const movimientoCols = `
	id, epc,
	persona_id, objeto_id, puerta_id, lector_id, antena_id,
	extra, creado_en
`

func (r *MovimientosRepo) ListRecientes(ctx context.Context, limit int) ([]accesos.Movimiento, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movimientoCols+`
		FROM movimientos
		ORDER BY creado_en DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovimientos(rows)
}

func (r *MovimientosRepo) ListPorFecha(ctx context.Context, desde, hasta time.Time) ([]accesos.Movimiento, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movimientoCols+`
		FROM movimientos
		WHERE creado_en >= $1
		  AND creado_en < $2
		ORDER BY creado_en ASC
	`, desde, hasta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovimientos(rows)
}

func scanMovimientos(rows *sql.Rows) ([]accesos.Movimiento, error) {
	out := make([]accesos.Movimiento, 0)
	for rows.Next() {
		var m accesos.Movimiento
		var personaID, objetoID, puertaID, lectorID, antenaID sql.NullInt64
		var extra []byte

		if err := rows.Scan(
			&m.ID,
			&m.EPC,
			&personaID,
			&objetoID,
			&puertaID,
			&lectorID,
			&antenaID,
			&extra,
			&m.CreadoEn,
		); err != nil {
			return nil, err
		}

		m.PersonaID = fromNullInt64(personaID)
		m.ObjetoID = fromNullInt64(objetoID)
		m.PuertaID = fromNullInt64(puertaID)
		m.LectorID = fromNullInt64(lectorID)
		m.AntenaID = fromNullInt64(antenaID)

		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &m.Extra); err != nil {
				return nil, fmt.Errorf("parsear extra de %s: %w", m.ID, err)
			}
		}

		out = append(out, m)
	}
	return out, rows.Err()
}
