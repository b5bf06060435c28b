package main

import (
	"log"

	"crm-gateway/internal/config"
	"crm-gateway/internal/database"
	"crm-gateway/internal/models"

	"github.com/google/uuid"
)

// Seeds the database with a small working set for local development. Safe to
// re-run: it skips seeding when any user already exists.
func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)
	db := database.DB

	var count int64
	db.Model(&models.Usuario{}).Count(&count)
	if count > 0 {
		log.Println("Database already seeded, nothing to do")
		return
	}

	usuarios := []models.Usuario{
		{Nombre: "Laura Méndez", Email: "laura@example.com", Activo: true},
		{Nombre: "Diego Salas", Email: "diego@example.com", Activo: true},
	}
	if err := db.Create(&usuarios).Error; err != nil {
		log.Fatalf("Failed to seed usuarios: %v", err)
	}

	empresa := models.Empresa{Nombre: "Acme Industrial", Direccion: "Av. Reforma 120", Sector: "Manufactura"}
	if err := db.Create(&empresa).Error; err != nil {
		log.Fatalf("Failed to seed empresa: %v", err)
	}

	contactos := []models.Contacto{
		{EmpresaID: empresa.ID, Nombre: "Marta Ruiz", Email: "marta@acme.mx", Telefono: "+52 55 1234 5678", Puesto: "Compras"},
		{EmpresaID: empresa.ID, Nombre: "Jorge Peña", Email: "", Telefono: "+52 55 8765 4321", Puesto: "Operaciones"},
	}
	if err := db.Create(&contactos).Error; err != nil {
		log.Fatalf("Failed to seed contactos: %v", err)
	}

	trato := models.Trato{
		Nombre:        "Línea de empaque 2026",
		EmpresaID:     empresa.ID,
		ContactoID:    contactos[0].ID,
		PropietarioID: usuarios[0].ID,
		Fase:          models.FaseProspeccion,
		Monto:         250000,
	}
	if err := db.Create(&trato).Error; err != nil {
		log.Fatalf("Failed to seed trato: %v", err)
	}

	plantilla := models.Plantilla{
		ID:       uuid.NewString(),
		Nombre:   "Seguimiento inicial",
		Asunto:   "Propuesta de colaboración",
		Cuerpo:   "<p>Hola, le comparto la información que comentamos.</p>",
		Adjuntos: "[]",
	}
	if err := db.Create(&plantilla).Error; err != nil {
		log.Fatalf("Failed to seed plantilla: %v", err)
	}

	log.Println("Seed data created")
}
