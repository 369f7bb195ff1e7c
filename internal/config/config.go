package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Lector agrupa la configuración del comando de pulso hacia los lectores
// físicos. Los templates admiten los placeholders {protocol}, {ip},
// {port}, {pin}, {pulseMs}, {postState} y {mode}.
type Lector struct {
	Protocolo string
	Puerto    int
	Timeout   time.Duration
	PulsoMs   int

	URLTemplate  string
	BodyTemplate string

	Usuario string
	Clave   string
}

// Config es la configuración de la aplicación, leída de env.
type Config struct {
	// Política de accesos
	EstadosPermitidos  []string
	RequiereAsignacion bool
	Modo               string // any | require-person | require-asset | require-both

	Lector Lector

	// Infra
	DSN    string
	Puerto string
}

const (
	DefaultProtocolo = "http"
	DefaultPuerto    = 80
	DefaultTimeout   = 4 * time.Second
	DefaultPulsoMs   = 500
)

// FromEnv arma la Config desde variables de entorno. Valores ausentes o
// malformados caen al default; acá no se falla el arranque por config.
func FromEnv() Config {
	return Config{
		EstadosPermitidos:  csv(os.Getenv("ACCESS_ALLOWED_ASSET_STATES")),
		RequiereAsignacion: boolOr(os.Getenv("ACCESS_REQUIRE_ASSIGNMENT"), true),
		Modo:               modo(os.Getenv("ACCESS_MODE")),
		Lector: Lector{
			Protocolo:    stringOr(os.Getenv("READER_PROTOCOL"), DefaultProtocolo),
			Puerto:       intOr(os.Getenv("READER_PORT"), DefaultPuerto),
			Timeout:      msOr(os.Getenv("READER_TIMEOUT_MS"), DefaultTimeout),
			PulsoMs:      intOr(os.Getenv("READER_PULSE_MS"), DefaultPulsoMs),
			URLTemplate:  strings.TrimSpace(os.Getenv("READER_PULSE_URL_TEMPLATE")),
			BodyTemplate: strings.TrimSpace(os.Getenv("READER_PULSE_BODY_TEMPLATE")),
			Usuario:      os.Getenv("READER_USERNAME"),
			Clave:        os.Getenv("READER_PASSWORD"),
		},
		DSN:    os.Getenv("DB_DSN"),
		Puerto: stringOr(os.Getenv("PORT"), "8080"),
	}
}

func csv(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil // el dominio aplica su default
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolOr(s string, def bool) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return def
	case "1", "true", "yes", "si", "sí", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func intOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func msOr(s string, def time.Duration) time.Duration {
	n := intOr(s, 0)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

func stringOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func modo(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "require-person", "require-asset", "require-both":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return "any"
	}
}
