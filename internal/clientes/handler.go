package clientes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/cliente"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

// Store is what the handler needs from the persistence layer. *Repo satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	List(ctx context.Context, page, limit int) ([]cliente.Cliente, int64, error)
	Get(ctx context.Context, id int64) (cliente.Cliente, error)
	Create(ctx context.Context, in CreateInput) (cliente.Cliente, error)
	Update(ctx context.Context, id int64, in UpdateInput) (cliente.Cliente, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string, page, limit int) ([]cliente.Cliente, int64, error)
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
		log.Printf("clientes list: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	cl, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Client not found")
		return
	}
	if err != nil {
		log.Printf("clientes get %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	httpx.OK(c, cl)
}

type createReq struct {
	Nombre    string `json:"nombre" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Telefono  string `json:"telefono" binding:"omitempty,max=20"`
	Direccion string `json:"direccion" binding:"omitempty,max=200"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createReq
	if !httpx.BindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	cl, err := h.store.Create(c.Request.Context(), CreateInput{
		Nombre:    strings.TrimSpace(req.Nombre),
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	})
	if apperr.IsConflict(err) {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("clientes create: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to create client")
		return
	}
	httpx.Created(c, cl, "Client created successfully")
}

type updateReq struct {
	Nombre    *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Telefono  *string `json:"telefono" binding:"omitempty,max=20"`
	Direccion *string `json:"direccion" binding:"omitempty,max=200"`
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
	if req.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &e
	}

	cl, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	})
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Client not found")
		return
	}
	if apperr.IsConflict(err) {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("clientes update %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to update client")
		return
	}
	httpx.OK(c, cl)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Client not found")
		return
	}
	if err != nil {
		log.Printf("clientes delete %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	httpx.OKMessage(c, "Client deleted successfully")
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
		log.Printf("clientes search %q: %v", term, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to search clients")
		return
	}
	httpx.Paged(c, items, httpx.NewPagination(page, limit, total))
}
