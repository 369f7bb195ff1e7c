package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Client envuelve *http.Client con helpers comunes para adapters.
type Client struct {
	HTTP *http.Client
}

// New crea un Client con timeout duro.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{Timeout: timeout},
	}
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	c := New(timeout)
	if tr != nil {
		c.HTTP.Transport = tr
	}
	return c
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Respuesta es el resultado crudo de Do.
type Respuesta struct {
	StatusCode int
	Body       string
}

// Do arma y ejecuta un request con body textual opcional y headers extra.
// Basic auth si user no está vacío. Devuelve *HTTPError para status no-2xx
// (con la respuesta igualmente cargada) y el error de transporte tal cual
// para fallos de red/timeout.
func (c *Client) Do(
	ctx context.Context,
	method string,
	rawURL string,
	headers map[string]string,
	user, pass string,
	body string,
) (Respuesta, error) {
	if c == nil || c.HTTP == nil {
		return Respuesta{}, errors.New("httpclient: nil client")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Respuesta{}, errors.New("httpclient: empty url")
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return Respuesta{}, fmt.Errorf("httpclient: new request: %w", err)
	}
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	if strings.TrimSpace(user) != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Respuesta{}, err
	}
	defer resp.Body.Close()

	raw, _ := readAtMost(resp.Body, 1<<20) // 1MB max
	out := Respuesta{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &HTTPError{StatusCode: resp.StatusCode, Body: out.Body}
	}
	return out, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = 1 << 20
	}
	return io.ReadAll(io.LimitReader(r, max))
}
