package accesos

import (
	"encoding/json"
	"errors"
)

var ErrSinAuditoria = errors.New("movimiento sin auditoría de control de acceso")

// EmbederAuditoria serializa la auditoría dentro del Extra del movimiento
// bajo ClaveAuditoria, como estructura genérica (map/slice), que es lo que
// el adapter de storage persiste como JSON.
func EmbederAuditoria(extra map[string]any, a Auditoria) (map[string]any, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var generico map[string]any
	if err := json.Unmarshal(b, &generico); err != nil {
		return nil, err
	}
	if extra == nil {
		extra = map[string]any{}
	}
	extra[ClaveAuditoria] = generico
	return extra, nil
}

// ParseAuditoria recupera la auditoría embebida en el Extra de un
// movimiento. Es la contracara de EmbederAuditoria y el contrato que
// usan los colaboradores de reportes.
func ParseAuditoria(extra map[string]any) (Auditoria, error) {
	raw, ok := extra[ClaveAuditoria]
	if !ok {
		return Auditoria{}, ErrSinAuditoria
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return Auditoria{}, err
	}
	var a Auditoria
	if err := json.Unmarshal(b, &a); err != nil {
		return Auditoria{}, err
	}
	return a, nil
}
