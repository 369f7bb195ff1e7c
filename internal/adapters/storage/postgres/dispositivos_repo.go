package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rfid-access/internal/domain/dispositivos"
)

type DispositivosRepo struct {
	db *sql.DB
}

func NewDispositivosRepo(db *sql.DB) *DispositivosRepo {
	return &DispositivosRepo{db: db}
}

func (r *DispositivosRepo) GetPuerta(ctx context.Context, id int64) (dispositivos.Puerta, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, activa, creado_en, actualizado_en
		FROM puertas
		WHERE id = $1
	`, id)

	var p dispositivos.Puerta
	if err := row.Scan(&p.ID, &p.Nombre, &p.Activa, &p.CreadoEn, &p.ActualizadoEn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispositivos.Puerta{}, dispositivos.ErrNotFound
		}
		return dispositivos.Puerta{}, err
	}
	return p, nil
}

func (r *DispositivosRepo) GetLector(ctx context.Context, id int64) (dispositivos.Lector, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, ip, activo, creado_en, actualizado_en
		FROM lectores
		WHERE id = $1
	`, id)

	var l dispositivos.Lector
	var ip sql.NullString
	if err := row.Scan(&l.ID, &l.Nombre, &ip, &l.Activo, &l.CreadoEn, &l.ActualizadoEn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispositivos.Lector{}, dispositivos.ErrNotFound
		}
		return dispositivos.Lector{}, err
	}
	l.IP = ip.String
	return l, nil
}

func (r *DispositivosRepo) GetAntena(ctx context.Context, id int64) (dispositivos.Antena, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, lector_id, indice, activa, creado_en
		FROM antenas
		WHERE id = $1
	`, id)

	var a dispositivos.Antena
	var lectorID sql.NullInt64
	if err := row.Scan(&a.ID, &lectorID, &a.Indice, &a.Activa, &a.CreadoEn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispositivos.Antena{}, dispositivos.ErrNotFound
		}
		return dispositivos.Antena{}, err
	}
	a.LectorID = fromNullInt64(lectorID)
	return a, nil
}

func (r *DispositivosRepo) GetPuertaDeAntena(ctx context.Context, antenaID int64) (dispositivos.PuertaAntena, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, puerta_id, antena_id, creado_en
		FROM puertas_antenas
		WHERE antena_id = $1
		ORDER BY creado_en DESC
		LIMIT 1
	`, antenaID)

	var v dispositivos.PuertaAntena
	if err := row.Scan(&v.ID, &v.PuertaID, &v.AntenaID, &v.CreadoEn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispositivos.PuertaAntena{}, dispositivos.ErrNotFound
		}
		return dispositivos.PuertaAntena{}, err
	}
	return v, nil
}
