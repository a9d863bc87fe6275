package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"xfront/auth"
	"xfront/config"
	"xfront/handlers/api"
	"xfront/handlers/web"
	"xfront/middleware"
	"xfront/storage"
	"xfront/utils"
)

func main() {
	utils.Log.Info("Initializing xfront...")

	// Load configuration
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		return
	}

	// Initialize i18n system
	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Session store backed by bbolt
	sessionStorage, err := storage.NewSessionStore(cfg.Session.Path)
	if err != nil {
		utils.Log.Error("Failed to initialize session storage: %v", err)
		return
	}
	defer sessionStorage.Close()

	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     cfg.Session.SessionExpiration(),
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
	})

	// Initialize template engine with custom functions
	engine := html.New("./templates", ".html")

	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("upper", strings.ToUpper)
	engine.AddFunc("trim", strings.TrimSpace)

	engine.AddFunc("t", func(messageID string) string {
		// Overridden per-request with the correct localizer
		return utils.T(utils.Localizer, messageID)
	})
	engine.AddFunc("tWithData", func(messageID string, data map[string]interface{}) string {
		return utils.TWithData(utils.Localizer, messageID, data)
	})

	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})
	engine.AddFunc("formatSizeMB", func(size float64) string {
		return fmt.Sprintf("%.1f MB", size)
	})

	// Initialize Fiber with template engine
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main", // Default layout
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			if api.IsAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			return c.Status(code).Render("error", fiber.Map{
				"Error": err.Error(),
				"Code":  code,
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))

	app.Use(middleware.LocaleMiddleware())

	// 100 requests per minute per IP
	app.Use(middleware.RateLimiter(100, time.Minute))

	// Issue CSRF tokens on page loads, verify them on state changes
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			if token := c.Cookies("csrf_token"); token != "" {
				c.Locals("csrf", token)
			} else {
				middleware.GenerateCSRFToken(c)
			}
		}
		return c.Next()
	})
	app.Use(middleware.CSRFProtection())

	// Serve static files
	app.Static("/assets", "./assets", fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	// Shared infrastructure
	cache := utils.NewMemoryCache()
	alerts := utils.NewAlertManager(cfg.Alerts.AlertFade())
	hub := api.NewAlertHub()

	backendClient := api.NewClient(&cfg.Backend)
	authManager := auth.NewManager(func(cookie string) auth.UserAPI {
		if cookie == "" {
			return api.NewClient(&cfg.Backend)
		}
		return backendClient.WithSessionCookie(cookie)
	}, utils.Log)

	// Initialize web handlers
	webAuthHandler := web.NewAuthHandler(store, cfg, authManager, backendClient, alerts)
	profileHandler := web.NewProfileHandler(store, cfg, webAuthHandler, cache, hub)
	pageHandler := web.NewPageHandler(cfg, webAuthHandler, cache)
	mediaHandler := web.NewMediaHandler(cfg, webAuthHandler)

	// Initialize API handlers
	alertsHandler := api.NewAlertsHandler(alerts)
	i18nHandler := &api.I18nHandler{}

	// Every page render needs the auth belief for the header; this never
	// rejects a request.
	app.Use(api.OptionalSessionMiddleware(store, cfg.JWT.Secret))

	requireSession := api.SessionMiddleware(store, cfg.JWT.Secret)

	// Public pages
	app.Get("/", pageHandler.HandleHome)
	app.Get("/about", pageHandler.HandleAbout)
	app.Get("/contact", pageHandler.HandleContact)
	app.Get("/login", webAuthHandler.ShowLogin)
	app.Post("/login", webAuthHandler.HandleLogin)
	app.Get("/signup", webAuthHandler.ShowSignup)
	app.Post("/signup", webAuthHandler.HandleSignup)
	app.Get("/logout", webAuthHandler.HandleLogout)
	app.Post("/logout", webAuthHandler.HandleLogout)

	// Protected pages
	app.Get("/profile", requireSession, profileHandler.HandleProfile)
	app.Get("/media", requireSession, mediaHandler.HandleMedia)

	// API routes
	apiRoutes := app.Group("/api", requireSession)
	{
		apiRoutes.Put("/profile", profileHandler.HandleUpdateAccount)
		apiRoutes.Put("/users/:username", profileHandler.HandleUpdateRole)

		apiRoutes.Get("/media/upload-url", mediaHandler.HandleUploadURL)
		apiRoutes.Post("/media/register/:name", mediaHandler.HandleRegisterMedia)
		apiRoutes.Get("/media/:id/access", mediaHandler.HandleMediaAccess)
		apiRoutes.Delete("/media/:id/:name", mediaHandler.HandleDeleteMedia)

		apiRoutes.Get("/alerts", alertsHandler.GetAlerts)
		apiRoutes.Delete("/alerts/:id", alertsHandler.DismissAlert)

		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)

		apiRoutes.Get("/alerts/stream", hub.HandleSSE)
	}

	// HTMX routes (partial template renders)
	htmx := app.Group("/htmx", requireSession)
	{
		htmx.Post("/users/more", profileHandler.HandleLoadMore)
		htmx.Get("/users/:username/edit", profileHandler.HandleEditRole)
	}

	// WebSocket alert stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/alerts", requireSession, websocket.New(hub.HandleWebSocket))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer := c.Locals("localizer").(*i18n.Localizer)

		if api.IsAPIRequest(c) {
			return c.Status(404).JSON(fiber.Map{
				"error": utils.T(localizer, "error_404"),
			})
		}
		return c.Status(404).Render("error", fiber.Map{
			"Error": utils.T(localizer, "error_404"),
			"Code":  404,
		})
	})

	// Start server
	if cfg.SSL.Enabled {
		if cfg.SSL.AutoRedirect {
			go redirectHTTP(cfg)
		}
		utils.Log.Info("Starting HTTPS server on port %d...", cfg.SSL.Port)
		if err := app.ListenTLS(fmt.Sprintf(":%d", cfg.SSL.Port), cfg.SSL.CertFile, cfg.SSL.KeyFile); err != nil {
			utils.Log.Error("Error starting HTTPS server: %v", err)
		}
		return
	}

	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}

// redirectHTTP serves a bare listener that bounces plain HTTP to HTTPS.
func redirectHTTP(cfg *config.Config) {
	redirect := fiber.New(fiber.Config{DisableStartupMessage: true})
	redirect.Use(func(c *fiber.Ctx) error {
		target := "https://" + c.Hostname()
		if cfg.SSL.Port != 443 {
			target = fmt.Sprintf("https://%s:%d", c.Hostname(), cfg.SSL.Port)
		}
		return c.Redirect(target+c.OriginalURL(), fiber.StatusMovedPermanently)
	})

	if err := redirect.Listen(fmt.Sprintf(":%d", cfg.SSL.HTTPPort)); err != nil {
		utils.Log.Error("Error starting HTTP redirect listener: %v", err)
	}
}
