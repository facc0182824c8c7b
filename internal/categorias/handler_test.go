package categorias

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/categoria"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	rows   map[int64]categoria.Categoria
	nextID int64
	clock  time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]categoria.Categoria{}, nextID: 1, clock: time.Unix(1000, 0)}
}

func (s *fakeStore) ordered() []categoria.Categoria {
	out := make([]categoria.Categoria, 0, len(s.rows))
	for _, cat := range s.rows {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func paginate(rows []categoria.Categoria, page, limit int) []categoria.Categoria {
	off := (page - 1) * limit
	if off >= len(rows) {
		return []categoria.Categoria{}
	}
	end := off + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[off:end]
}

func (s *fakeStore) List(ctx context.Context, page, limit int) ([]categoria.Categoria, int64, error) {
	all := s.ordered()
	return paginate(all, page, limit), int64(len(all)), nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (categoria.Categoria, error) {
	cat, ok := s.rows[id]
	if !ok {
		return categoria.Categoria{}, apperr.ErrNotFound
	}
	return cat, nil
}

func (s *fakeStore) Create(ctx context.Context, in CreateInput) (categoria.Categoria, error) {
	s.clock = s.clock.Add(time.Second)
	cat := categoria.Categoria{
		ID: s.nextID, Nombre: in.Nombre, Descripcion: in.Descripcion,
		CreatedAt: s.clock, UpdatedAt: s.clock,
	}
	s.rows[s.nextID] = cat
	s.nextID++
	return cat, nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, in UpdateInput) (categoria.Categoria, error) {
	cat, ok := s.rows[id]
	if !ok {
		return categoria.Categoria{}, apperr.ErrNotFound
	}
	if in.Nombre != nil {
		cat.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		cat.Descripcion = *in.Descripcion
	}
	cat.UpdatedAt = s.clock.Add(time.Minute)
	s.rows[id] = cat
	return cat, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.rows[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeStore) Search(ctx context.Context, term string, page, limit int) ([]categoria.Categoria, int64, error) {
	t := strings.ToLower(term)
	matched := []categoria.Categoria{}
	for _, cat := range s.ordered() {
		if strings.Contains(strings.ToLower(cat.Nombre), t) || strings.Contains(strings.ToLower(cat.Descripcion), t) {
			matched = append(matched, cat)
		}
	}
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func setupRouter(s Store) *gin.Engine {
	r := gin.New()
	NewHandler(s).Register(r.Group("/api/categorias"))
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

func TestCreateCategoria(t *testing.T) {
	r := setupRouter(newFakeStore())

	w := doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": "Electronics", "descripcion": "Gadgets"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestCreateCategoriaNombreLimits(t *testing.T) {
	r := setupRouter(newFakeStore())

	w := doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": "E"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": strings.Repeat("x", 51)})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchCategoriaSubstring(t *testing.T) {
	r := setupRouter(newFakeStore())

	w := doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": "Hogar"})
	require.Equal(t, http.StatusCreated, w.Code)

	// "tron" must find "Electronics" regardless of case
	w = doJSON(t, r, "GET", "/api/categorias/search?q=tron", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data       []categoria.Categoria `json:"data"`
		Pagination httpx.Pagination      `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Electronics", resp.Data[0].Nombre)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestUpdateCategoriaNotFound(t *testing.T) {
	r := setupRouter(newFakeStore())
	w := doJSON(t, r, "PUT", "/api/categorias/5", gin.H{"nombre": "Nueva"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoriaIdempotence(t *testing.T) {
	r := setupRouter(newFakeStore())

	w := doJSON(t, r, "POST", "/api/categorias", gin.H{"nombre": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "DELETE", "/api/categorias/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "DELETE", "/api/categorias/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
