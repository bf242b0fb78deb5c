package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"enscho/internal/config"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  "Start the school website, PPDB form and dashboards.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db := openDB(ctx)
	defer db.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	warnStartup(ctx, cfg, repository.NewUserRepository(db))

	engine, err := server.New(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

// warnStartup logs what an operator still has to do before the dashboards
// are usable. The public site and PPDB form serve regardless.
func warnStartup(ctx context.Context, cfg *config.Config, userRepo *repository.UserRepository) {
	var problems []string

	if cfg.IsProduction() && cfg.App.Secret == "change-me-in-production" && cfg.Session.Signed {
		problems = append(problems, "app.secret is still the default while signed sessions are on")
	}

	admins, err := userRepo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("Startup check: failed to list admins: %v", err)
		return
	}
	hasAdmin := false
	for _, u := range admins {
		if u.IsActive {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		problems = append(problems, "no active admin user")
	}

	if len(problems) == 0 {
		return
	}

	log.Println("========================================")
	log.Println("  enscho configuration incomplete")
	log.Println("========================================")
	for _, p := range problems {
		log.Printf("  - %s", p)
	}
	if !hasAdmin {
		log.Println("Create one with:")
		log.Println("  enscho user create -e admin@sekolah.sch.id -p yourpassword -r admin")
	}
}
