package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/shopspring/decimal"
)

type RestaurantController struct {
	Restaurants repository.RestaurantRepository
	Writer      repository.RestaurantWriter
}

// NewRestaurantController takes a nil writer when restaurants come from the static file.
func NewRestaurantController(restaurants repository.RestaurantRepository, writer repository.RestaurantWriter) *RestaurantController {
	return &RestaurantController{Restaurants: restaurants, Writer: writer}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type restaurantRequest struct {
	Slug     string  `json:"slug"`
	Name     string  `json:"nombre" binding:"required,max=255"`
	Category string  `json:"categoria" binding:"max=100"`
	Rating   float64 `json:"rating" binding:"gte=0,lte=5"`
	PrepTime int     `json:"tiempo_preparacion" binding:"gte=0"`
	ImageURL string  `json:"imagen_url" binding:"max=255"`
}

func (r restaurantRequest) model() models.Restaurant {
	return models.Restaurant{
		Slug:     strings.TrimSpace(r.Slug),
		Name:     strings.TrimSpace(r.Name),
		Category: strings.TrimSpace(r.Category),
		Rating:   r.Rating,
		PrepTime: r.PrepTime,
		ImageURL: strings.TrimSpace(r.ImageURL),
	}
}

type dishRequest struct {
	Name        string          `json:"nombre" binding:"required,max=255"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url" binding:"max=255"`
}

var errReadOnlyCatalog = errors.New("El catálogo se carga desde archivo y no admite cambios")

func (rc *RestaurantController) writable(c *gin.Context) bool {
	if rc.Writer == nil {
		utils.RespondError(c, http.StatusConflict, errReadOnlyCatalog)
		return false
	}
	return true
}

func (rc *RestaurantController) ListAPI(c *gin.Context) {
	restaurants, err := rc.Restaurants.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurantes", restaurants)
}

func (rc *RestaurantController) DetailAPI(c *gin.Context) {
	restaurant, err := rc.Restaurants.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurante", restaurant)
}

func (rc *RestaurantController) Create(c *gin.Context) {
	if !rc.writable(c) {
		return
	}
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Datos de restaurante inválidos"))
		return
	}
	restaurant := req.model()
	if !slugPattern.MatchString(restaurant.Slug) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Identificador de restaurante inválido"))
		return
	}
	if err := rc.Writer.Create(c.Request.Context(), &restaurant); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.WithField("slug", restaurant.Slug).Info("restaurant created")
	utils.RespondJSON(c, http.StatusCreated, "Restaurante creado", restaurant)
}

func (rc *RestaurantController) Update(c *gin.Context) {
	if !rc.writable(c) {
		return
	}
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Datos de restaurante inválidos"))
		return
	}
	restaurant, err := rc.Writer.Update(c.Request.Context(), c.Param("slug"), req.model())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurante actualizado", restaurant)
}

func (rc *RestaurantController) Delete(c *gin.Context) {
	if !rc.writable(c) {
		return
	}
	slug := c.Param("slug")
	if err := rc.Writer.Delete(c.Request.Context(), slug); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.WithField("slug", slug).Info("restaurant deleted")
	utils.RespondJSON(c, http.StatusOK, "Restaurante eliminado", nil)
}

func (rc *RestaurantController) CreateDish(c *gin.Context) {
	if !rc.writable(c) {
		return
	}
	var req dishRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Price.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Datos de plato inválidos"))
		return
	}
	dish := models.Dish{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := rc.Writer.AddDish(c.Request.Context(), c.Param("slug"), &dish); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Plato creado", dish)
}

func (rc *RestaurantController) DeleteDish(c *gin.Context) {
	if !rc.writable(c) {
		return
	}
	dishID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.Writer.DeleteDish(c.Request.Context(), dishID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plato eliminado", nil)
}
