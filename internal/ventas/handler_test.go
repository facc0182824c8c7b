package ventas

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/venta"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore backs the handler with in-memory ventas over the fakeGateway
// workflow, so handler tests exercise the same creation path.
type fakeStore struct {
	gw     *fakeGateway
	ventas map[int64]*venta.ConDetalles
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{gw: newFakeGateway(), ventas: map[int64]*venta.ConDetalles{}, nextID: 1}
}

func (s *fakeStore) ListAll(ctx context.Context) ([]venta.Venta, error) {
	out := []venta.Venta{}
	for _, v := range s.ventas {
		out = append(out, v.Venta)
	}
	return out, nil
}

func (s *fakeStore) ListByCliente(ctx context.Context, clienteID int64) ([]venta.Venta, error) {
	out := []venta.Venta{}
	for _, v := range s.ventas {
		if v.ClienteID == clienteID {
			out = append(out, v.Venta)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByEstado(ctx context.Context, estado string) ([]venta.Venta, error) {
	out := []venta.Venta{}
	for _, v := range s.ventas {
		if v.Estado == estado {
			out = append(out, v.Venta)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (venta.ConDetalles, error) {
	v, ok := s.ventas[id]
	if !ok {
		return venta.ConDetalles{}, apperr.ErrNotFound
	}
	return *v, nil
}

func (s *fakeStore) Create(ctx context.Context, in CrearVentaInput) (venta.ConDetalles, error) {
	s.gw.nextVentaID = s.nextID
	if _, err := crearVenta(ctx, s.gw, in, true); err != nil {
		return venta.ConDetalles{}, err
	}
	id := s.nextID
	s.nextID++

	v := &venta.ConDetalles{
		Venta: venta.Venta{
			ID:         id,
			ClienteID:  in.ClienteID,
			Total:      *s.gw.totalSet,
			Estado:     venta.EstadoPendiente,
			FechaVenta: time.Now(),
		},
	}
	for i, d := range s.gw.detalles {
		v.Detalles = append(v.Detalles, venta.Detalle{
			ID:             int64(i + 1),
			VentaID:        id,
			ProductoID:     d.productoID,
			Cantidad:       d.cantidad,
			PrecioUnitario: d.precioUnitario,
			Subtotal:       d.subtotal,
		})
	}
	s.gw.detalles = nil
	s.gw.totalSet = nil
	s.ventas[id] = v
	return *v, nil
}

func (s *fakeStore) UpdateEstado(ctx context.Context, id int64, estado string) (venta.Venta, error) {
	v, ok := s.ventas[id]
	if !ok {
		return venta.Venta{}, apperr.ErrNotFound
	}
	v.Estado = estado
	v.UpdatedAt = time.Now()
	return v.Venta, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.ventas[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.ventas, id)
	return nil
}

func (s *fakeStore) Stats(ctx context.Context) (venta.Stats, error) {
	st := venta.Stats{TotalIngresos: decimal.Zero}
	for _, v := range s.ventas {
		st.TotalVentas++
		st.TotalIngresos = st.TotalIngresos.Add(v.Total)
		switch v.Estado {
		case venta.EstadoCompletada:
			st.VentasCompletadas++
		case venta.EstadoPendiente:
			st.VentasPendientes++
		case venta.EstadoCancelada:
			st.VentasCanceladas++
		}
	}
	return st, nil
}

func setupRouter(s Store) *gin.Engine {
	r := gin.New()
	NewHandler(s).Register(r.Group("/api/ventas"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateVentaOK(t *testing.T) {
	s := newFakeStore()
	s.gw.addProducto(1, "10.00", 5)
	r := setupRouter(s)

	w := doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total    decimal.Decimal `json:"total"`
			Estado   string          `json:"estado"`
			Detalles []struct {
				Subtotal decimal.Decimal `json:"subtotal"`
			} `json:"detalles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Total.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, "pendiente", resp.Data.Estado)
	require.Len(t, resp.Data.Detalles, 1)
	assert.True(t, resp.Data.Detalles[0].Subtotal.Equal(decimal.RequireFromString("30.00")))
}

func TestCreateVentaStockInsuficiente(t *testing.T) {
	s := newFakeStore()
	s.gw.addProducto(1, "10.00", 5)
	r := setupRouter(s)

	// first sale takes 3 of 5
	w := doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// second sale asks for 10 against the remaining 2
	w = doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 10}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Stock insuficiente")
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreateVentaValidation(t *testing.T) {
	r := setupRouter(newFakeStore())

	// empty detalles and missing cliente_id fail together
	w := doJSON(t, r, "POST", "/api/ventas", gin.H{"detalles": []gin.H{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")

	w = doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 0}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVentaNotFound(t *testing.T) {
	r := setupRouter(newFakeStore())
	w := doJSON(t, r, "GET", "/api/ventas/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateEstado(t *testing.T) {
	s := newFakeStore()
	s.gw.addProducto(1, "5.00", 10)
	r := setupRouter(s)

	w := doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "PUT", "/api/ventas/1", gin.H{"estado": "completada"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"estado":"completada"`)

	// same estado again still succeeds
	w = doJSON(t, r, "PUT", "/api/ventas/1", gin.H{"estado": "completada"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "PUT", "/api/ventas/1", gin.H{"estado": "enviada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteVentaIdempotence(t *testing.T) {
	s := newFakeStore()
	s.gw.addProducto(1, "5.00", 10)
	r := setupRouter(s)

	w := doJSON(t, r, "POST", "/api/ventas", gin.H{
		"cliente_id": 1,
		"detalles":   []gin.H{{"producto_id": 1, "cantidad": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "DELETE", "/api/ventas/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "DELETE", "/api/ventas/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByEstadoInvalid(t *testing.T) {
	r := setupRouter(newFakeStore())
	w := doJSON(t, r, "GET", "/api/ventas/estado/enviada", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	s := newFakeStore()
	s.gw.addProducto(1, "10.00", 100)
	r := setupRouter(s)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, "POST", "/api/ventas", gin.H{
			"cliente_id": 1,
			"detalles":   []gin.H{{"producto_id": 1, "cantidad": 2}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := doJSON(t, r, "PUT", "/api/ventas/2", gin.H{"estado": "completada"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/ventas/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data venta.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.TotalVentas)
	assert.True(t, resp.Data.TotalIngresos.Equal(decimal.RequireFromString("60.00")))
	assert.Equal(t, 1, resp.Data.VentasCompletadas)
	assert.Equal(t, 2, resp.Data.VentasPendientes)
	assert.Equal(t, 0, resp.Data.VentasCanceladas)
}
