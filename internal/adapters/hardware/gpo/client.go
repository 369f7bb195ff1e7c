package gpo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rfid-access/internal/config"
	"rfid-access/internal/platform/httpclient"
	"rfid-access/internal/ports/hardware"
)

// Template por defecto del endpoint REST de pulso de los lectores.
const DefaultURLTemplate = "{protocol}://{ip}:{port}/api/v1/gpo/{pin}/pulse"

// Body JSON por defecto cuando no se configura template.
const DefaultBodyTemplate = `{"pin":{pin},"pulseMs":{pulseMs},"postState":"{postState}","mode":"{mode}"}`

// Client dispara pulsos de GPO sobre HTTP contra el lector físico.
// Implementa hardware.Actuador. Todo fallo (red, timeout, no-2xx) se
// devuelve como Resultado con Success=false, nunca como error: el motor
// registra el fallo en la auditoría y sigue.
type Client struct {
	cfg  config.Lector
	http *httpclient.Client
}

func New(cfg config.Lector) *Client {
	return &Client{
		cfg:  normalizar(cfg),
		http: httpclient.New(cfg.Timeout),
	}
}

// NewWithTransport inyecta un RoundTripper (tests).
func NewWithTransport(cfg config.Lector, tr http.RoundTripper) *Client {
	c := New(cfg)
	c.http = httpclient.NewWithTransport(c.cfg.Timeout, tr)
	return c
}

func normalizar(cfg config.Lector) config.Lector {
	if strings.TrimSpace(cfg.Protocolo) == "" {
		cfg.Protocolo = config.DefaultProtocolo
	}
	if cfg.Puerto <= 0 {
		cfg.Puerto = config.DefaultPuerto
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.PulsoMs <= 0 {
		cfg.PulsoMs = config.DefaultPulsoMs
	}
	return cfg
}

func (c *Client) Pulso(ctx context.Context, cmd hardware.Comando) hardware.Resultado {
	inicio := time.Now()

	res := hardware.Resultado{StartedAt: inicio}
	terminar := func() hardware.Resultado {
		res.FinishedAt = time.Now()
		res.DurationMs = res.FinishedAt.Sub(inicio).Milliseconds()
		return res
	}

	ip := strings.TrimSpace(cmd.IP)
	if ip == "" {
		res.Error = "lector sin IP"
		res.Message = "no se pudo armar el comando: lector sin IP"
		return terminar()
	}

	pulsoMs := cmd.PulsoMs
	if pulsoMs <= 0 {
		pulsoMs = c.cfg.PulsoMs
	}

	vals := placeholders(c.cfg, cmd, ip, pulsoMs)

	urlTemplate := c.cfg.URLTemplate
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	res.URL = render(urlTemplate, vals)

	bodyTemplate := c.cfg.BodyTemplate
	if bodyTemplate == "" {
		bodyTemplate = DefaultBodyTemplate
	}
	body := render(bodyTemplate, vals)

	// Timeout duro además del timeout del http.Client: si el lector no
	// contesta, el request se aborta y se reporta como timeout.
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.http.Do(ctx, http.MethodPost, res.URL,
		map[string]string{"Content-Type": "application/json"},
		c.cfg.Usuario, c.cfg.Clave, body)

	res.StatusCode = resp.StatusCode

	switch {
	case err == nil:
		res.Success = true
		res.Message = fmt.Sprintf("pulso enviado a pin %d (HTTP %d)", cmd.Pin, resp.StatusCode)
	case errors.As(err, new(*httpclient.HTTPError)):
		res.Error = err.Error()
		res.Message = fmt.Sprintf("el lector respondió HTTP %d", resp.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		res.Error = err.Error()
		res.Message = fmt.Sprintf("timeout de %s esperando al lector %s", c.cfg.Timeout, ip)
	default:
		res.Error = err.Error()
		res.Message = fmt.Sprintf("no se pudo contactar al lector %s", ip)
	}

	return terminar()
}

func placeholders(cfg config.Lector, cmd hardware.Comando, ip string, pulsoMs int) map[string]string {
	postState := "high"
	if cmd.EstadoFinalBajo {
		postState = "low"
	}
	modo := cmd.Modo
	if modo == "" {
		modo = "pulse"
	}
	return map[string]string{
		"protocol":  cfg.Protocolo,
		"ip":        ip,
		"host":      ip,
		"port":      strconv.Itoa(cfg.Puerto),
		"pin":       strconv.Itoa(cmd.Pin),
		"gpoPin":    strconv.Itoa(cmd.Pin),
		"pulseMs":   strconv.Itoa(pulsoMs),
		"duration":  strconv.Itoa(pulsoMs),
		"postState": postState,
		"mode":      modo,
	}
}

func render(template string, vals map[string]string) string {
	out := template
	for k, v := range vals {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
