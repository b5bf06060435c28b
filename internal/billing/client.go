package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crm-gateway/pkg/models"
)

// Client is the bridge to the external billing service. Quotations live
// there; the gateway only relays summaries and never persists them.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: &http.Client{Timeout: 15 * time.Second}}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("billing error: %s - %s", resp.Status, string(body))
	}
	return body, nil
}

// Listar returns the quotation summaries for a deal.
func (c *Client) Listar(ctx context.Context, tratoID uint) ([]models.Cotizacion, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/cotizaciones?trato=%d", tratoID))
	if err != nil {
		return nil, err
	}
	var out models.CotizacionList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Enlazada reports whether the quotation is already linked to a receivable.
func (c *Client) Enlazada(ctx context.Context, id string) (bool, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/cotizaciones/%s/enlace", id))
	if err != nil {
		return false, err
	}
	var out models.EnlaceCheck
	if err := json.Unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.Enlazada, nil
}

// ExportarPDF returns the rendered PDF bytes for a quotation.
func (c *Client) ExportarPDF(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/api/cotizaciones/%s/pdf", id))
}
