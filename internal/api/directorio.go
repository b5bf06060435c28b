package api

import (
	"net/http"

	"crm-gateway/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DirectorioHandler serves the lookup collections the deal screens draw from:
// companies, their contacts and the active user list.
type DirectorioHandler struct {
	DB *gorm.DB
}

func NewDirectorioHandler(db *gorm.DB) *DirectorioHandler {
	return &DirectorioHandler{DB: db}
}

func (h *DirectorioHandler) GetEmpresas(c *gin.Context) {
	var empresas []models.Empresa
	if err := h.DB.Order("nombre").Find(&empresas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if empresas == nil {
		empresas = []models.Empresa{}
	}
	c.JSON(http.StatusOK, empresas)
}

type EmpresaRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Direccion string `json:"direccion"`
	Sector    string `json:"sector"`
}

func (h *DirectorioHandler) CreateEmpresa(c *gin.Context) {
	var req EmpresaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	empresa := models.Empresa{Nombre: req.Nombre, Direccion: req.Direccion, Sector: req.Sector}
	if err := h.DB.Create(&empresa).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la empresa"})
		return
	}
	c.JSON(http.StatusCreated, empresa)
}

// GetContactos lists contacts, optionally scoped to one company with
// ?empresa=ID. The schedule form uses the scoped listing.
func (h *DirectorioHandler) GetContactos(c *gin.Context) {
	query := h.DB.Order("nombre")
	if empresa := c.Query("empresa"); empresa != "" {
		query = query.Where("empresa_id = ?", empresa)
	}
	var contactos []models.Contacto
	if err := query.Find(&contactos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if contactos == nil {
		contactos = []models.Contacto{}
	}
	c.JSON(http.StatusOK, contactos)
}

type ContactoRequest struct {
	EmpresaID uint   `json:"empresa_id" binding:"required"`
	Nombre    string `json:"nombre" binding:"required"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Puesto    string `json:"puesto"`
}

func (h *DirectorioHandler) CreateContacto(c *gin.Context) {
	var req ContactoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contacto := models.Contacto{
		EmpresaID: req.EmpresaID,
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Puesto:    req.Puesto,
	}
	if err := h.DB.Create(&contacto).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el contacto"})
		return
	}
	c.JSON(http.StatusCreated, contacto)
}

func (h *DirectorioHandler) UpdateContacto(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req ContactoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contacto models.Contacto
	if err := h.DB.First(&contacto, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contacto no encontrado"})
		return
	}
	contacto.EmpresaID = req.EmpresaID
	contacto.Nombre = req.Nombre
	contacto.Email = req.Email
	contacto.Telefono = req.Telefono
	contacto.Puesto = req.Puesto
	if err := h.DB.Save(&contacto).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el contacto"})
		return
	}
	c.JSON(http.StatusOK, contacto)
}

func (h *DirectorioHandler) DeleteContacto(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	result := h.DB.Delete(&models.Contacto{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el contacto"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contacto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Contacto eliminado"})
}

// GetUsuarios lists active users for assignee pickers.
func (h *DirectorioHandler) GetUsuarios(c *gin.Context) {
	var usuarios []models.Usuario
	if err := h.DB.Where("activo = ?", true).Order("nombre").Find(&usuarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if usuarios == nil {
		usuarios = []models.Usuario{}
	}
	c.JSON(http.StatusOK, usuarios)
}
