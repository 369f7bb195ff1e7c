package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rfid-access/internal/domain/objetos"
)

type ObjetosRepo struct {
	db *sql.DB
}

func NewObjetosRepo(db *sql.DB) *ObjetosRepo {
	return &ObjetosRepo{db: db}
}

const objetoCols = `
	id, nombre, tipo, estado, epc, creado_en, actualizado_en
`

func (r *ObjetosRepo) GetByID(ctx context.Context, id int64) (objetos.Objeto, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+objetoCols+`
		FROM objetos
		WHERE id = $1
	`, id)
	return scanObjeto(row)
}

func (r *ObjetosRepo) GetByEPC(ctx context.Context, epc string) (objetos.Objeto, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+objetoCols+`
		FROM objetos
		WHERE epc = $1
		ORDER BY actualizado_en DESC
		LIMIT 1
	`, epc)
	return scanObjeto(row)
}

func scanObjeto(row *sql.Row) (objetos.Objeto, error) {
	var o objetos.Objeto
	var tipo, estado, epc sql.NullString

	if err := row.Scan(
		&o.ID,
		&o.Nombre,
		&tipo,
		&estado,
		&epc,
		&o.CreadoEn,
		&o.ActualizadoEn,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return objetos.Objeto{}, objetos.ErrNotFound
		}
		return objetos.Objeto{}, err
	}

	o.Tipo = tipo.String
	o.Estado = estado.String
	o.EPC = epc.String
	return o, nil
}
