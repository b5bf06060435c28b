package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client talks to the mail-provider service: direct sends, meeting
// notifications and attachment uploads.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Envio is one outbound email.
type Envio struct {
	Destinatarios []string `json:"destinatarios"`
	Asunto        string   `json:"asunto"`
	Cuerpo        string   `json:"cuerpo"` // HTML
	Adjuntos      []string `json:"adjuntos,omitempty"`
}

// AvisoReunion is the payload of a meeting-confirmation notification.
type AvisoReunion struct {
	Para      string `json:"para"`
	Contacto  string `json:"contacto"`
	Fecha     string `json:"fecha"`
	Hora      string `json:"hora"`
	Duracion  int    `json:"duracion"`
	Modalidad string `json:"modalidad"`
	Lugar     string `json:"lugar,omitempty"`
	Enlace    string `json:"enlace,omitempty"`
}

func (c *Client) sendRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("mailer error: %s - %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

// Enviar submits an email for delivery and returns the provider's message id.
func (c *Client) Enviar(ctx context.Context, e Envio) (string, error) {
	resp, err := c.sendRequest(ctx, "POST", "/api/correos", e)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// NotificarReunion sends the meeting-confirmation notification; reprogramada
// selects the rescheduled variant endpoint.
func (c *Client) NotificarReunion(ctx context.Context, aviso AvisoReunion, reprogramada bool) error {
	path := "/api/notificaciones/reunion"
	if reprogramada {
		path = "/api/notificaciones/reunion-reprogramada"
	}
	_, err := c.sendRequest(ctx, "POST", path, aviso)
	return err
}

// SubirAdjunto uploads an attachment via multipart and returns its stored URL.
func (c *Client) SubirAdjunto(ctx context.Context, data []byte, mime, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	part.Write(data)
	writer.WriteField("mime_type", mime)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/adjuntos", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("upload failed: %s - %s", resp.Status, string(respBody))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
