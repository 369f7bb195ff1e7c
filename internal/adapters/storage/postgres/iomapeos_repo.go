package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rfid-access/internal/domain/iomapeos"
)

type IOMapeosRepo struct {
	db *sql.DB
}

func NewIOMapeosRepo(db *sql.DB) *IOMapeosRepo {
	return &IOMapeosRepo{db: db}
}

// FindMejorMatch resuelve el ranking de especificidad directamente en el
// query (mismo criterio que iomapeos.RangoDe): 0 = exacto o ambos nulos,
// 1 = comodín con input conocido; empates por actualizado_en/creado_en.
func (r *IOMapeosRepo) FindMejorMatch(ctx context.Context, puertaID, lectorID, antenaID *int64) (iomapeos.Mapeo, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, puerta_id, lector_id, antena_id,
			pin_gpo, modo, pulso_ms, estado_final_bajo,
			anti_rebote_ms, activo,
			creado_en, actualizado_en
		FROM io_mapeos
		WHERE activo
		  AND ($1::bigint IS NULL OR puerta_id IS NULL OR puerta_id = $1)
		  AND ($2::bigint IS NULL OR lector_id IS NULL OR lector_id = $2)
		  AND ($3::bigint IS NULL OR antena_id IS NULL OR antena_id = $3)
		ORDER BY
			CASE
				WHEN ($1::bigint IS NULL AND puerta_id IS NULL) OR puerta_id = $1 THEN 0
				WHEN puerta_id IS NULL THEN 1
				ELSE 2
			END,
			CASE
				WHEN ($2::bigint IS NULL AND lector_id IS NULL) OR lector_id = $2 THEN 0
				WHEN lector_id IS NULL THEN 1
				ELSE 2
			END,
			CASE
				WHEN ($3::bigint IS NULL AND antena_id IS NULL) OR antena_id = $3 THEN 0
				WHEN antena_id IS NULL THEN 1
				ELSE 2
			END,
			actualizado_en DESC,
			creado_en DESC
		LIMIT 1
	`, toNullInt64(puertaID), toNullInt64(lectorID), toNullInt64(antenaID))

	var m iomapeos.Mapeo
	var pID, lID, aID sql.NullInt64
	var pin, pulso, antiRebote sql.NullInt64
	var modo sql.NullString

	if err := row.Scan(
		&m.ID,
		&pID,
		&lID,
		&aID,
		&pin,
		&modo,
		&pulso,
		&m.EstadoFinalBajo,
		&antiRebote,
		&m.Activo,
		&m.CreadoEn,
		&m.ActualizadoEn,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return iomapeos.Mapeo{}, iomapeos.ErrNotFound
		}
		return iomapeos.Mapeo{}, err
	}

	m.PuertaID = fromNullInt64(pID)
	m.LectorID = fromNullInt64(lID)
	m.AntenaID = fromNullInt64(aID)
	m.PinGPO = fromNullInt(pin)
	m.Modo = modo.String
	m.PulsoMs = fromNullInt(pulso)
	m.AntiReboteMs = fromNullInt(antiRebote)
	return m, nil
}
