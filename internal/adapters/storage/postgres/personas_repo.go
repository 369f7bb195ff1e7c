package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rfid-access/internal/domain/personas"
)

type PersonasRepo struct {
	db *sql.DB
}

func NewPersonasRepo(db *sql.DB) *PersonasRepo {
	return &PersonasRepo{db: db}
}

const personaCols = `
	id, nombre, habilitado, habilitado_desde, habilitado_hasta,
	epc, creado_en, actualizado_en
`

func (r *PersonasRepo) GetByID(ctx context.Context, id int64) (personas.Persona, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+personaCols+`
		FROM personas
		WHERE id = $1
	`, id)
	return scanPersona(row)
}

func (r *PersonasRepo) GetByEPC(ctx context.Context, epc string) (personas.Persona, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+personaCols+`
		FROM personas
		WHERE epc = $1
		ORDER BY actualizado_en DESC
		LIMIT 1
	`, epc)
	return scanPersona(row)
}

func (r *PersonasRepo) GetHistorialByEPC(ctx context.Context, epc string, en time.Time) (personas.EPCHistorial, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, persona_id, epc, valido_desde, valido_hasta, creado_en
		FROM personas_epc_historial
		WHERE epc = $1
		  AND (valido_hasta IS NULL OR valido_hasta >= $2)
		ORDER BY valido_desde DESC NULLS LAST, creado_en DESC
		LIMIT 1
	`, epc, en)

	var h personas.EPCHistorial
	var desde, hasta sql.NullTime
	if err := row.Scan(&h.ID, &h.PersonaID, &h.EPC, &desde, &hasta, &h.CreadoEn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return personas.EPCHistorial{}, personas.ErrNotFound
		}
		return personas.EPCHistorial{}, err
	}
	h.ValidoDesde = fromNullTime(desde)
	h.ValidoHasta = fromNullTime(hasta)
	return h, nil
}

func scanPersona(row *sql.Row) (personas.Persona, error) {
	var p personas.Persona
	var desde, hasta sql.NullTime
	var epc sql.NullString

	if err := row.Scan(
		&p.ID,
		&p.Nombre,
		&p.Habilitado,
		&desde,
		&hasta,
		&epc,
		&p.CreadoEn,
		&p.ActualizadoEn,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return personas.Persona{}, personas.ErrNotFound
		}
		return personas.Persona{}, err
	}

	p.HabilitadoDesde = fromNullTime(desde)
	p.HabilitadoHasta = fromNullTime(hasta)
	if epc.Valid {
		p.EPC = epc.String
	}
	return p, nil
}
