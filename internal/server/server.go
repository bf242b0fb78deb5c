// Package server builds the gin engine: repositories, services, handlers and
// the route table, with the access gate installed in front of everything.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"enscho/internal/access"
	"enscho/internal/config"
	"enscho/internal/database"
	"enscho/internal/handlers"
	"enscho/internal/middleware"
	"enscho/internal/repository"
	"enscho/internal/services"
	"enscho/internal/web"
)

// New wires the application against an open, migrated database.
func New(cfg *config.Config, db *database.DB) (*gin.Engine, error) {
	policy := access.DefaultPolicy()
	renderer, err := web.New(cfg.App.SchoolName, policy)
	if err != nil {
		return nil, err
	}

	var codec access.Codec = access.PlainCodec{}
	if cfg.Session.Signed {
		codec = access.NewSignedCodec(cfg.App.Secret)
	}
	sessions := middleware.NewSessions(codec, cfg.IsProduction())

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	majorRepo := repository.NewMajorRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	uploads := services.NewUploadService(cfg)
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(userRepo, cfg.Security.LegacyPlaintextPasswords)
	userService := services.NewUserService(userRepo, authService)
	postService := services.NewPostService(postRepo)
	pageService := services.NewPageService(pageRepo)
	majorService := services.NewMajorService(majorRepo)
	partnerService := services.NewPartnerService(partnerRepo)
	galleryService := services.NewGalleryService(galleryRepo, uploads)
	registrationService := services.NewRegistrationService(registrationRepo, majorRepo)

	pageSize := cfg.Limits.PageSize
	authHandler := handlers.NewAuthHandler(authService, auditService, sessions)
	publicHandler := handlers.NewPublicHandler(postService, pageService, majorService, partnerService, galleryService, pageSize)
	dashboardHandler := handlers.NewDashboardHandler(userService, postService, registrationService, auditService)
	postHandler := handlers.NewPostHandler(postService, uploads, auditService, pageSize)
	pageHandler := handlers.NewPageHandler(pageService, auditService)
	majorHandler := handlers.NewMajorHandler(majorService, uploads, auditService)
	partnerHandler := handlers.NewPartnerHandler(partnerService, uploads, auditService)
	galleryHandler := handlers.NewGalleryHandler(galleryService, auditService, pageSize*2)
	ppdbHandler := handlers.NewPPDBHandler(registrationService, majorService, auditService, pageSize*2)
	userHandler := handlers.NewUserHandler(userService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)
	portalHandler := handlers.NewPortalHandler(userService, authService, postService, galleryService, uploads, auditService)

	r := gin.New()
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.Limits.MaxUploadSize
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CSRF(cfg.IsProduction()))
	r.Use(middleware.Access(policy, codec))
	r.Use(middleware.CurrentUser(userRepo))

	r.StaticFS("/static", http.FS(web.StaticFS()))
	r.Group(cfg.Uploads.URLPrefix, middleware.UploadHeaders()).Static("", uploads.Root())

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", middleware.AllowIPs(cfg.Metrics.AllowedIPs), gin.WrapH(promhttp.Handler()))
	}

	loginLimit := middleware.LoginRateLimit(cfg.Security.LoginRateLimit)
	r.GET("/admin/login", authHandler.AdminLoginPage)
	r.POST("/admin/login", loginLimit, authHandler.AdminLogin)
	r.GET("/login/:portal", authHandler.PortalLoginPage)
	r.POST("/login/:portal", loginLimit, authHandler.PortalLogin)
	r.POST("/logout", authHandler.Logout)

	// Public site
	r.GET("/", publicHandler.Home)
	r.GET("/berita", publicHandler.News)
	r.GET("/berita/:slug", publicHandler.NewsDetail)
	r.GET("/jurusan", publicHandler.Majors)
	r.GET("/jurusan/:slug", publicHandler.MajorDetail)
	r.GET("/mitra", publicHandler.Partners)
	r.GET("/galeri", publicHandler.Gallery)
	r.GET("/halaman/:slug", publicHandler.Page)
	r.GET("/ppdb", ppdbHandler.Form)
	r.POST("/ppdb", ppdbHandler.Submit)
	r.GET("/ppdb/:number", ppdbHandler.Status)

	// Dashboard. The access gate has already applied the per-role
	// allow-lists by the time these run.
	admin := r.Group(policy.AdminPrefix)
	{
		admin.GET("", dashboardHandler.Index)

		admin.GET("/posts", postHandler.List)
		admin.GET("/posts/create", postHandler.CreatePage)
		admin.POST("/posts/create", postHandler.Create)
		admin.GET("/posts/edit/:id", postHandler.EditPage)
		admin.POST("/posts/edit/:id", postHandler.Update)
		admin.POST("/posts/delete/:id", postHandler.Delete)
		admin.POST("/posts/publish/:id", postHandler.TogglePublish)

		admin.GET("/pages", pageHandler.List)
		admin.GET("/pages/create", pageHandler.CreatePage)
		admin.POST("/pages/create", pageHandler.Create)
		admin.GET("/pages/edit/:id", pageHandler.EditPage)
		admin.POST("/pages/edit/:id", pageHandler.Update)
		admin.POST("/pages/delete/:id", pageHandler.Delete)

		admin.GET("/jurusan", majorHandler.List)
		admin.GET("/jurusan/create", majorHandler.CreatePage)
		admin.POST("/jurusan/create", majorHandler.Create)
		admin.GET("/jurusan/edit/:id", majorHandler.EditPage)
		admin.POST("/jurusan/edit/:id", majorHandler.Update)
		admin.POST("/jurusan/delete/:id", majorHandler.Delete)

		admin.GET("/partners", partnerHandler.List)
		admin.GET("/partners/create", partnerHandler.CreatePage)
		admin.POST("/partners/create", partnerHandler.Create)
		admin.GET("/partners/edit/:id", partnerHandler.EditPage)
		admin.POST("/partners/edit/:id", partnerHandler.Update)
		admin.POST("/partners/delete/:id", partnerHandler.Delete)

		admin.GET("/gallery", galleryHandler.List)
		admin.GET("/gallery/create", galleryHandler.CreatePage)
		admin.POST("/gallery/create", galleryHandler.Create)
		admin.POST("/gallery/delete/:id", galleryHandler.Delete)

		admin.GET("/ppdb", ppdbHandler.AdminList)
		admin.GET("/ppdb/export", ppdbHandler.Export)
		admin.GET("/ppdb/view/:id", ppdbHandler.AdminView)
		admin.POST("/ppdb/status/:id", ppdbHandler.SetStatus)

		admin.GET("/users", userHandler.List)
		admin.GET("/users/create", userHandler.CreatePage)
		admin.POST("/users/create", userHandler.Create)
		admin.GET("/users/edit/:id", userHandler.EditPage)
		admin.POST("/users/edit/:id", userHandler.Update)
		admin.POST("/users/toggle/:id", userHandler.ToggleActive)

		admin.GET("/audit", auditHandler.List)
		admin.GET("/audit/json", auditHandler.ListAPI)
	}

	for _, rule := range policy.Portals {
		portal := r.Group(rule.Prefix)
		portal.GET("", portalHandler.Dashboard(rule.Role))
		portal.GET("/profile", portalHandler.Profile(rule.Role))
		portal.POST("/profile", portalHandler.UpdateProfile(rule.Role))
		portal.POST("/password", portalHandler.ChangePassword(rule.Role))
	}

	r.NoRoute(publicHandler.NotFound)

	return r, nil
}
