package main

import (
	"context"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/apiclient"
	"quotebuilder/collections"
	"quotebuilder/commands"
	"quotebuilder/config"
	"quotebuilder/handlers"
	"quotebuilder/services"
	"quotebuilder/sessionstore"
	"quotebuilder/templates"
)

func main() {
	app := pocketbase.New()
	cfg := config.Load()

	deps := &handlers.Deps{
		API:      apiclient.New(cfg.APIURL, cfg.APITimeout),
		Renderer: newRenderer(cfg),
		Config:   cfg,
	}

	app.RootCmd.AddCommand(commands.NewBOMSummaryCommand(cfg))

	// Create collections and drop stale quote sessions on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if n, err := collections.PruneQuoteSessions(app, cfg.SessionTTL); err != nil {
			log.Printf("Warning: quote session prune failed: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d stale quote sessions", n)
		}

		deps.Quotes = services.NewQuoteAssembler(newSessionStore(app, cfg))
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.AuthMiddleware())

		// ── Auth & project selection ─────────────────────────────
		se.Router.GET("/{$}", handlers.HandleHome(app, deps))
		se.Router.GET("/login", handlers.HandleLoginPage(app, deps))
		se.Router.POST("/login", handlers.HandleLogin(app, deps))
		se.Router.POST("/logout", handlers.HandleLogout(app, deps))
		se.Router.POST("/projects/select", handlers.HandleProjectSelect(app, deps))

		// ── Bill of materials ────────────────────────────────────
		se.Router.GET("/projects/{projectId}/bom", handlers.HandleBOMPage(app, deps))
		se.Router.POST("/projects/{projectId}/bom", handlers.HandleBOMAdd(app, deps))
		se.Router.DELETE("/projects/{projectId}/bom", handlers.HandleBOMDeleteAll(app, deps))

		// Export and import (before {itemId} routes)
		se.Router.GET("/projects/{projectId}/bom/export/excel", handlers.HandleBOMExportExcel(app, deps))
		se.Router.GET("/projects/{projectId}/bom/export/pdf", handlers.HandleBOMExportPDF(app, deps))
		se.Router.GET("/projects/{projectId}/bom/import/template", handlers.HandleBOMTemplateDownload(app, deps))
		se.Router.POST("/projects/{projectId}/bom/import", handlers.HandleBOMImportValidate(app, deps))
		se.Router.POST("/projects/{projectId}/bom/import/commit", handlers.HandleBOMImportCommit(app, deps))
		se.Router.POST("/projects/{projectId}/bom/import/errors", handlers.HandleBOMImportErrorReport(app, deps))

		se.Router.DELETE("/projects/{projectId}/bom/{itemId}", handlers.HandleBOMDelete(app, deps))
		se.Router.POST("/projects/{projectId}/bom/{itemId}/margin", handlers.HandleBOMMargin(app, deps))

		// ── Category catalog ─────────────────────────────────────
		se.Router.POST("/projects/{projectId}/categories", handlers.HandleCategoryCreate(app, deps))
		se.Router.DELETE("/projects/{projectId}/categories/{categoryId}", handlers.HandleCategoryDelete(app, deps))

		// ── Labor types ──────────────────────────────────────────
		se.Router.GET("/projects/{projectId}/labor", handlers.HandleLaborPage(app, deps))
		se.Router.POST("/projects/{projectId}/labor", handlers.HandleLaborCreate(app, deps))
		se.Router.DELETE("/projects/{projectId}/labor/{laborId}", handlers.HandleLaborDelete(app, deps))

		// ── Quote ────────────────────────────────────────────────
		se.Router.GET("/projects/{projectId}/quote", handlers.HandleQuotePage(app, deps))
		se.Router.POST("/projects/{projectId}/quote/labor/{laborId}", handlers.HandleQuoteAddLabor(app, deps))
		se.Router.DELETE("/projects/{projectId}/quote/labor/{laborId}", handlers.HandleQuoteRemoveLabor(app, deps))
		se.Router.POST("/projects/{projectId}/quote/items", handlers.HandleQuoteAddItem(app, deps))
		se.Router.DELETE("/projects/{projectId}/quote/items/{itemId}", handlers.HandleQuoteRemoveItem(app, deps))
		se.Router.POST("/projects/{projectId}/quote/clear", handlers.HandleQuoteClear(app, deps))
		se.Router.POST("/projects/{projectId}/quote/preview", handlers.HandleQuotePreview(app, deps))
		se.Router.GET("/projects/{projectId}/quote/export/pdf", handlers.HandleQuoteExportPDF(app, deps))
		se.Router.GET("/projects/{projectId}/quote/export/html", handlers.HandleQuoteExportHTML(app, deps))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// newSessionStore picks the quote session backend. An unreachable Redis
// falls back to in-memory sessions.
func newSessionStore(app *pocketbase.PocketBase, cfg *config.Config) services.QuoteSessionStore {
	switch cfg.QuoteStore {
	case config.StoreRedis:
		store, err := sessionstore.NewRedisStore(context.Background(), cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Printf("Warning: redis unavailable, quote sessions kept in memory: %v", err)
			return services.NewMemorySessionStore()
		}
		app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
			store.Close()
			return e.Next()
		})
		return store
	case config.StoreMemory:
		return services.NewMemorySessionStore()
	}
	return sessionstore.NewRecordStore(app)
}

func newRenderer(cfg *config.Config) services.PDFRenderer {
	if cfg.PDFRenderer == config.RendererChrome {
		return services.ChromeRenderer{
			RenderHTML: templates.QuoteDocumentHTML,
			ExecPath:   cfg.ChromePath,
			Timeout:    cfg.PDFTimeout,
		}
	}
	return services.MarotoRenderer{}
}
