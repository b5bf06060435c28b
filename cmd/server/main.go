package main

import (
	"log"
	"strconv"

	"crm-gateway/internal/api"
	"crm-gateway/internal/assets"
	"crm-gateway/internal/billing"
	"crm-gateway/internal/config"
	"crm-gateway/internal/database"
	"crm-gateway/internal/mailer"
	"crm-gateway/internal/models"
	"crm-gateway/internal/notify"
	"crm-gateway/internal/realtime"
	"crm-gateway/internal/scheduler"
	"crm-gateway/internal/webhook"
	"crm-gateway/internal/whatsapp"
	"crm-gateway/internal/ws"
	wire "crm-gateway/pkg/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Usuario")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	whatsappClient := whatsapp.NewClient(cfg)
	mailerClient := mailer.NewClient(cfg.MailerBaseURL, cfg.MailerToken)
	billingClient := billing.NewClient(cfg.BillingBaseURL, cfg.BillingToken)
	assetsClient := assets.NewClient(cfg.AssetsBaseURL, cfg.AssetsToken)

	checker := scheduler.NewAgendaChecker(cfg.AgendaBaseURL, cfg.APIToken)
	schedulerService := scheduler.NewService(database.DB, checker)
	notificador := notify.NewNotificador(database.DB, mailerClient)

	hub := ws.NewHub()
	go hub.Run()

	// Mail providers that expose a push feed get a per-deal subscription; the
	// webhook below covers the rest.
	var feed *realtime.Feed
	if cfg.DeliveryFeedURL != "" {
		feed = realtime.NewFeed(cfg.DeliveryFeedURL, func(tratoID uint, correoID, estado string) {
			result := database.DB.Model(&models.CorreoRegistro{}).
				Where("id = ? AND trato_id = ?", correoID, tratoID).
				Update("estado", estado)
			if result.Error != nil {
				log.Printf("Delivery feed update error: %v", result.Error)
				return
			}
			hub.NotifyDelivery(wire.DeliveryEvent{TratoID: tratoID, CorreoID: correoID, Estado: estado})
		})
		defer feed.Close()
	}

	webhookHandler := webhook.NewHandler(cfg, database.DB, hub)
	tratoHandler := api.NewTratoHandler(database.DB, schedulerService)
	actividadHandler := api.NewActividadHandler(database.DB, schedulerService)
	confirmacionHandler := api.NewConfirmacionHandler(database.DB, notificador)
	notaHandler := api.NewNotaHandler(database.DB)
	plantillaHandler := api.NewPlantillaHandler(database.DB, assetsClient)
	correoHandler := api.NewCorreoHandler(database.DB, mailerClient)
	cotizacionHandler := api.NewCotizacionHandler(billingClient)
	directorioHandler := api.NewDirectorioHandler(database.DB)
	whatsappHandler := api.NewWhatsAppHandler(whatsappClient)

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleDelivery)

	// WebSocket endpoint, one subscription per deal
	r.GET("/ws", func(c *gin.Context) {
		if feed != nil {
			if id, err := strconv.ParseUint(c.Query("trato"), 10, 64); err == nil {
				feed.Ensure(uint(id))
			}
		}
		hub.ServeWs(c.Writer, c.Request)
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(api.AuthMiddleware(cfg.APIToken))
	{
		// Deal Routes
		apiGroup.GET("/tratos", tratoHandler.GetTratos)
		apiGroup.POST("/tratos", tratoHandler.CreateTrato)
		apiGroup.GET("/tratos/:id/detalle", tratoHandler.GetDetalle)
		apiGroup.PUT("/tratos/:id", tratoHandler.UpdateTrato)
		apiGroup.PUT("/tratos/:id/fase", tratoHandler.CambiarFase)
		apiGroup.DELETE("/tratos/:id", tratoHandler.DeleteTrato)

		// Activity Routes
		apiGroup.POST("/actividades", actividadHandler.CreateActividad)
		apiGroup.PUT("/actividades/:id", actividadHandler.UpdateActividad)
		apiGroup.POST("/actividades/:id/completar", actividadHandler.CompletarActividad)
		apiGroup.PUT("/interacciones/:id", actividadHandler.EditarInteraccion)
		apiGroup.DELETE("/actividades/:id", actividadHandler.DeleteActividad)
		apiGroup.GET("/tratos/:id/actividades", actividadHandler.GetActividades)
		apiGroup.GET("/tratos/:id/historial", actividadHandler.GetHistorial)
		apiGroup.GET("/agenda/conflicto", actividadHandler.CheckConflicto)

		// Meeting Confirmation Routes
		apiGroup.POST("/actividades/:id/confirmacion", confirmacionHandler.Confirmar)
		apiGroup.GET("/contactos/:id/alcance", confirmacionHandler.Alcance)

		// Note Routes
		apiGroup.GET("/tratos/:id/notas", notaHandler.GetNotas)
		apiGroup.POST("/tratos/:id/notas", notaHandler.CreateNota)
		apiGroup.PUT("/notas/:id", notaHandler.UpdateNota)
		apiGroup.DELETE("/notas/:id", notaHandler.DeleteNota)

		// Template and Email Routes
		apiGroup.GET("/plantillas", plantillaHandler.GetPlantillas)
		apiGroup.GET("/plantillas/:id", plantillaHandler.GetPlantilla)
		apiGroup.POST("/plantillas", plantillaHandler.CreatePlantilla)
		apiGroup.PUT("/plantillas/:id", plantillaHandler.UpdatePlantilla)
		apiGroup.DELETE("/plantillas/:id", plantillaHandler.DeletePlantilla)
		apiGroup.POST("/imagenes", plantillaHandler.UploadImagen)
		apiGroup.GET("/tratos/:id/correos", correoHandler.GetCorreos)
		apiGroup.POST("/correos", correoHandler.EnviarCorreo)
		apiGroup.POST("/adjuntos", correoHandler.UploadAdjunto)

		// Quotation Routes
		apiGroup.GET("/tratos/:id/cotizaciones", cotizacionHandler.GetCotizaciones)
		apiGroup.GET("/cotizaciones/:id/pdf", cotizacionHandler.ExportPDF)

		// Directory Routes
		apiGroup.GET("/empresas", directorioHandler.GetEmpresas)
		apiGroup.POST("/empresas", directorioHandler.CreateEmpresa)
		apiGroup.GET("/contactos", directorioHandler.GetContactos)
		apiGroup.POST("/contactos", directorioHandler.CreateContacto)
		apiGroup.PUT("/contactos/:id", directorioHandler.UpdateContacto)
		apiGroup.DELETE("/contactos/:id", directorioHandler.DeleteContacto)
		apiGroup.GET("/usuarios", directorioHandler.GetUsuarios)

		// WhatsApp Direct API Routes
		apiGroup.POST("/whatsapp/send", whatsappHandler.SendMessage)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
