package api

import (
	"log"
	"net/http"

	"crm-gateway/internal/billing"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type CotizacionHandler struct {
	Billing *billing.Client
}

func NewCotizacionHandler(b *billing.Client) *CotizacionHandler {
	return &CotizacionHandler{Billing: b}
}

// GetCotizaciones relays the billing service's summaries for a deal and
// resolves the receivable link flag per item concurrently. A failed link
// check is non-critical: it logs and leaves the flag false.
func (h *CotizacionHandler) GetCotizaciones(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	cotizaciones, err := h.Billing.Listar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	for i := range cotizaciones {
		i := i
		g.Go(func() error {
			enlazada, err := h.Billing.Enlazada(ctx, cotizaciones[i].ID)
			if err != nil {
				log.Printf("Link check failed for cotización %s: %v", cotizaciones[i].ID, err)
				return nil
			}
			cotizaciones[i].Enlazada = enlazada
			return nil
		})
	}
	g.Wait()

	c.JSON(http.StatusOK, cotizaciones)
}

// ExportPDF streams the billing service's rendered PDF.
func (h *CotizacionHandler) ExportPDF(c *gin.Context) {
	pdf, err := h.Billing.ExportarPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=cotizacion-"+c.Param("id")+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
