package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
	"biblioteca-backend/internal/loans"
	"biblioteca-backend/internal/platform/auth"
	"biblioteca-backend/internal/platform/db"
	"biblioteca-backend/internal/reports"
	"biblioteca-backend/internal/sanctions"
)

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	ctx := context.Background()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("[ERROR] migrations failed: %v", err)
	}

	catalogSvc := catalog.NewService(catalog.NewStore(conn))
	borrowerSvc := borrowers.NewService(borrowers.NewStore(conn))
	sanctionSvc := sanctions.NewService(sanctions.NewStore(conn), borrowerSvc)
	loanSvc := loans.NewService(loans.NewStore(conn), borrowerSvc, catalogSvc, sanctionSvc)
	reportSvc := reports.NewService(reports.NewStore(conn), sanctionSvc)
	authSvc := auth.NewService(conn, []byte(cfg.JWTKey))

	// repair passes: publications without stock get their default
	// copies, expired sanctions get retired
	if _, err := catalogSvc.Backfill(ctx); err != nil {
		log.Fatalf("[ERROR] catalog backfill failed: %v", err)
	}
	if _, err := sanctionSvc.Sweep(ctx); err != nil {
		log.Fatalf("[ERROR] sanction sweep failed: %v", err)
	}
	if err := authSvc.EnsureAdmin(ctx, cfg.Admin.DNI, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("[ERROR] admin bootstrap failed: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.StaticFile("/openapi.yaml", "api/openapi.yaml")
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/openapi.yaml")))

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(authSvc.Secret()))
	auth.RegisterProtectedRoutes(protected, authSvc)
	catalog.RegisterRoutes(protected, catalogSvc)
	borrowers.RegisterRoutes(protected, borrowerSvc)
	sanctions.RegisterRoutes(protected, sanctionSvc)
	loans.RegisterRoutes(protected, loanSvc)
	reports.RegisterRoutes(protected, reportSvc)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
