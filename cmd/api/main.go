package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/marcolopzx/sis-ventas/internal/categorias"
	"github.com/marcolopzx/sis-ventas/internal/clientes"
	"github.com/marcolopzx/sis-ventas/internal/config"
	"github.com/marcolopzx/sis-ventas/internal/db"
	"github.com/marcolopzx/sis-ventas/internal/docs"
	"github.com/marcolopzx/sis-ventas/internal/httpx"
	"github.com/marcolopzx/sis-ventas/internal/middleware"
	"github.com/marcolopzx/sis-ventas/internal/productos"
	"github.com/marcolopzx/sis-ventas/internal/ventas"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	pool, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	clienteHandler := clientes.NewHandler(clientes.NewRepo(pool))
	categoriaHandler := categorias.NewHandler(categorias.NewRepo(pool))
	productoHandler := productos.NewHandler(productos.NewRepo(pool))
	ventaHandler := ventas.NewHandler(ventas.NewRepo(pool, cfg.DecrementStock))

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitWindow, cfg.RateLimitMax))

	started := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(started).Seconds(),
		})
	})

	docs.Register(r)

	api := r.Group("/api")
	clienteHandler.Register(api.Group("/clientes"))
	categoriaHandler.Register(api.Group("/categorias"))
	productoHandler.Register(api.Group("/productos"))
	ventaHandler.Register(api.Group("/ventas"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpx.Response{
			Success: false,
			Error:   "Route not found",
			Details: gin.H{"path": c.Request.URL.Path},
		})
	})

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
