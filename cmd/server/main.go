package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/log-sentinel/backend/internal/analyzer"
	"github.com/log-sentinel/backend/internal/api"
	"github.com/log-sentinel/backend/internal/catalog"
	"github.com/log-sentinel/backend/internal/config"
	"github.com/log-sentinel/backend/internal/session"
	"github.com/log-sentinel/backend/internal/storage"
	"github.com/log-sentinel/backend/internal/upload"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Config lives next to the executable so air-gapped installs are
	// self-contained.
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "LogSentinel.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Initialize storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Load the signature catalog: the built-in one, or an operator-supplied
	// YAML file when configured.
	var cat *catalog.Catalog
	if cfg.Analysis.CatalogFile != "" {
		cat, err = catalog.LoadFromYAML(cfg.Analysis.CatalogFile)
		if err != nil {
			fmt.Printf("Failed to load catalog %s: %v\n", cfg.Analysis.CatalogFile, err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %d signatures from %s\n", cat.Len(), cfg.Analysis.CatalogFile)
	} else {
		cat = catalog.Default()
	}

	engine := analyzer.NewEngine(cat)

	// Initialize session manager
	sessionMgr := session.NewManager(engine, fileStore, cfg.GetTempDir())
	sessionMgr.SetEventStoreTuning(cfg.Advanced.DuckDBThreads, cfg.Advanced.DuckDBMemoryLimit)

	// Initialize upload processing manager
	uploadMgr := upload.NewManager(fileStore)

	// Start background session and upload-job cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Analysis.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.CleanupOldSessions(time.Duration(cfg.Analysis.SessionTimeoutMinutes) * time.Minute)
			uploadMgr.CleanupOldJobs(time.Hour)
		}
	}()

	// Initialize API handlers
	h := api.NewHandler(fileStore, sessionMgr, uploadMgr, engine)
	h.SetAllowedFileTypes(cfg.Security.AllowedFileTypes)
	h.SetEnrichment(api.EnrichmentSettings{
		Enabled:  cfg.Enrichment.Enabled,
		Endpoint: cfg.Enrichment.Endpoint,
		Timeout:  time.Duration(cfg.Enrichment.TimeoutSeconds) * time.Second,
	})

	wsHandler := api.NewWebSocketHandler(sessionMgr)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/status") ||
				path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.Contains(path, "/upload") ||
				strings.Contains(path, "/events") ||
				strings.Contains(path, "/ws/")
		},
		ErrorMessage: "Request timeout - analysis query took too long",
	}))

	if cfg.Analysis.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Analysis.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.Contains(c.Request().URL.Path, "/ws/")
			},
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	api.RegisterRoutes(e, h, wsHandler, cfg.Security.AllowFileDeletion)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Log Sentinel Analysis Server                    ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Signatures: %-45d║\n", cat.Len())
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
