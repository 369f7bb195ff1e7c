package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rfid-access/internal/domain/asignaciones"
)

type AsignacionesRepo struct {
	db *sql.DB
}

func NewAsignacionesRepo(db *sql.DB) *AsignacionesRepo {
	return &AsignacionesRepo{db: db}
}

func (r *AsignacionesRepo) GetVigente(ctx context.Context, personaID, objetoID int64) (asignaciones.Asignacion, error) {
	// la ventana no se filtra: el motor necesita distinguir "no existe"
	// de "existe pero vencida/no iniciada"
	row := r.db.QueryRowContext(ctx, `
		SELECT id, persona_id, objeto_id, asignado_desde, asignado_hasta, nota, creado_en
		FROM asignaciones
		WHERE persona_id = $1
		  AND objeto_id = $2
		ORDER BY asignado_desde DESC NULLS LAST, creado_en DESC
		LIMIT 1
	`, personaID, objetoID)

	var a asignaciones.Asignacion
	var desde, hasta sql.NullTime
	var nota sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.PersonaID,
		&a.ObjetoID,
		&desde,
		&hasta,
		&nota,
		&a.CreadoEn,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asignaciones.Asignacion{}, asignaciones.ErrNotFound
		}
		return asignaciones.Asignacion{}, err
	}

	a.AsignadoDesde = fromNullTime(desde)
	a.AsignadoHasta = fromNullTime(hasta)
	a.Nota = nota.String
	return a, nil
}
