package ventas

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/venta"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

type Store interface {
	ListAll(ctx context.Context) ([]venta.Venta, error)
	ListByCliente(ctx context.Context, clienteID int64) ([]venta.Venta, error)
	ListByEstado(ctx context.Context, estado string) ([]venta.Venta, error)
	Get(ctx context.Context, id int64) (venta.ConDetalles, error)
	Create(ctx context.Context, in CrearVentaInput) (venta.ConDetalles, error)
	UpdateEstado(ctx context.Context, id int64, estado string) (venta.Venta, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (venta.Stats, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/cliente/:clienteId", h.ListByCliente)
	rg.GET("/estado/:estado", h.ListByEstado)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("ventas list: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch ventas")
		return
	}
	httpx.OK(c, items)
}

func (h *Handler) ListByCliente(c *gin.Context) {
	clienteID, ok := httpx.IDParam(c, "clienteId")
	if !ok {
		return
	}
	items, err := h.store.ListByCliente(c.Request.Context(), clienteID)
	if err != nil {
		log.Printf("ventas by cliente %d: %v", clienteID, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch ventas")
		return
	}
	httpx.OK(c, items)
}

func (h *Handler) ListByEstado(c *gin.Context) {
	estado := c.Param("estado")
	if !venta.EstadoValido(estado) {
		httpx.ValidationFailed(c, []httpx.FieldError{
			{Field: "estado", Message: "must be one of: pendiente, completada, cancelada"},
		})
		return
	}
	items, err := h.store.ListByEstado(c.Request.Context(), estado)
	if err != nil {
		log.Printf("ventas by estado %s: %v", estado, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch ventas")
		return
	}
	httpx.OK(c, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	v, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Venta not found")
		return
	}
	if err != nil {
		log.Printf("ventas get %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch venta")
		return
	}
	httpx.OK(c, v)
}

type detalleReq struct {
	ProductoID int64 `json:"producto_id" binding:"required"`
	Cantidad   int   `json:"cantidad" binding:"required,gt=0"`
}

type crearVentaReq struct {
	ClienteID int64        `json:"cliente_id" binding:"required"`
	Detalles  []detalleReq `json:"detalles" binding:"required,min=1,dive"`
}

func (h *Handler) Create(c *gin.Context) {
	var req crearVentaReq
	if !httpx.BindJSON(c, &req) {
		return
	}

	in := CrearVentaInput{ClienteID: req.ClienteID}
	for _, d := range req.Detalles {
		in.Detalles = append(in.Detalles, LineaInput{ProductoID: d.ProductoID, Cantidad: d.Cantidad})
	}

	v, err := h.store.Create(c.Request.Context(), in)
	if apperr.IsDomain(err) {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("ventas create: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to create venta")
		return
	}
	httpx.Created(c, v, "Venta created successfully")
}

type updateVentaReq struct {
	Estado string `json:"estado" binding:"required,oneof=pendiente completada cancelada"`
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	var req updateVentaReq
	if !httpx.BindJSON(c, &req) {
		return
	}
	v, err := h.store.UpdateEstado(c.Request.Context(), id, req.Estado)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Venta not found")
		return
	}
	if err != nil {
		log.Printf("ventas update %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to update venta")
		return
	}
	httpx.OK(c, v)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.IDParam(c, "id")
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Venta not found")
		return
	}
	if err != nil {
		log.Printf("ventas delete %d: %v", id, err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete venta")
		return
	}
	httpx.OKMessage(c, "Venta deleted successfully")
}

func (h *Handler) Stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("ventas stats: %v", err)
		httpx.Error(c, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	httpx.OK(c, s)
}
