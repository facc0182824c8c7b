package productos

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/producto"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

type Store interface {
	List(ctx context.Context, page, limit int) ([]producto.Producto, int64, error)
	Get(ctx context.Context, id int64) (producto.Producto, error)
	Create(ctx context.Context, in CreateInput) (producto.Producto, error)
	Update(ctx context.Context, id int64, in UpdateInput) (producto.Producto, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string, page, limit int) ([]producto.Producto, int64, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	page, limit, ok := httpx.ParsePagination(c)
	if !ok {
		return
	}
	items, total, err := h.store.List(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("productos list: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("productos get %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	httpx.OK(c, p)
}

type createReq struct {
	Nombre      string           `json:"nombre" binding:"required,min=2,max=100"`
	Descripcion string           `json:"descripcion" binding:"omitempty,max=500"`
	Precio      *decimal.Decimal `json:"precio" binding:"required"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
	CategoriaID int64            `json:"categoria_id" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createReq
	if !httpx.BindJSON(c, &req) {
		return
	}
	if req.Precio.IsNegative() {
		httpx.ValidationFailed(c, []httpx.FieldError{{Field: "precio", Message: "must be a non-negative number"}})
		return
	}

	p, err := h.store.Create(c.Request.Context(), CreateInput{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      *req.Precio,
		Stock:       *req.Stock,
		CategoriaID: req.CategoriaID,
	})
	if apperr.IsDomain(err) {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("productos create: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	httpx.Created(c, p, "Product created successfully")
}

type updateReq struct {
	Nombre      *string          `json:"nombre" binding:"omitempty,min=2,max=100"`
	Descripcion *string          `json:"descripcion" binding:"omitempty,max=500"`
	Precio      *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoriaID *int64           `json:"categoria_id"`
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	var req updateReq
	if !httpx.BindJSON(c, &req) {
		return
	}
	if req.Precio != nil && req.Precio.IsNegative() {
		httpx.ValidationFailed(c, []httpx.FieldError{{Field: "precio", Message: "must be a non-negative number"}})
		return
	}

	p, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		CategoriaID: req.CategoriaID,
	})
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	if apperr.IsDomain(err) {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("productos update %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	httpx.OK(c, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("productos delete %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	httpx.OKMessage(c, "Product deleted successfully")
}

func (h *Handler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		httpx.ValidationFailed(c, []httpx.FieldError{{Field: "q", Message: "is required"}})
		return
	}
	page, limit, ok := httpx.ParsePagination(c)
	if !ok {
		return
	}
	items, total, err := h.store.Search(c.Request.Context(), term, page, limit)
	if err != nil {
		log.Printf("productos search %q: %v", term, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to search products")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}
