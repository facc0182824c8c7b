package categorias

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/categoria"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

type Store interface {
	List(ctx context.Context, page, limit int) ([]categoria.Categoria, int64, error)
	Get(ctx context.Context, id int64) (categoria.Categoria, error)
	Create(ctx context.Context, in CreateInput) (categoria.Categoria, error)
	Update(ctx context.Context, id int64, in UpdateInput) (categoria.Categoria, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string, page, limit int) ([]categoria.Categoria, int64, error)
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
		log.Printf("categorias list: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("categorias get %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch category")
		return
	}
	httpx.OK(c, cat)
}

type createReq struct {
	Nombre      string `json:"nombre" binding:"required,min=2,max=50"`
	Descripcion string `json:"descripcion" binding:"omitempty,max=200"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createReq
	if !httpx.BindJSON(c, &req) {
		return
	}
	cat, err := h.store.Create(c.Request.Context(), CreateInput{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
	})
	if err != nil {
		log.Printf("categorias create: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	httpx.Created(c, cat, "Category created successfully")
}

type updateReq struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=2,max=50"`
	Descripcion *string `json:"descripcion" binding:"omitempty,max=200"`
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
	cat, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
	})
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("categorias update %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	httpx.OK(c, cat)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("categorias delete %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	httpx.OKMessage(c, "Category deleted successfully")
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
		log.Printf("categorias search %q: %v", term, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to search categories")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}
