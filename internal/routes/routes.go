package routes

import (
	"net/http"
	"time"

	"github.com/shametoflame/ministry/internal/app"
	"github.com/shametoflame/ministry/internal/handler"
	"github.com/shametoflame/ministry/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	plan := handler.NewPlanHandler(app.Catalog)
	progress := handler.NewProgressHandler(app.ProgressService)
	scripture := handler.NewScriptureHandler(app.ScriptureService)
	contact := handler.NewContactHandler(app.MessageService)
	verse := handler.NewVerseHandler(app.VerseOfDayService)
	admin := handler.NewAdminHandler(app.AdminService, app.MessageService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Reading plans
	mux.HandleFunc("GET /api/plans", plan.List)
	mux.HandleFunc("GET /api/plans/categories", plan.Categories)
	mux.HandleFunc("GET /api/plans/{id}", plan.Show)
	mux.HandleFunc("GET /api/plans/{id}/days/{day}/devotional", plan.Devotional)

	// Progress
	mux.HandleFunc("POST /api/plans/{id}/start", progress.Start)
	mux.HandleFunc("POST /api/plans/{id}/complete", progress.CompleteDay)
	mux.HandleFunc("POST /api/plans/{id}/uncomplete", progress.UncompleteDay)
	mux.HandleFunc("POST /api/plans/{id}/save", progress.Save)
	mux.HandleFunc("DELETE /api/plans/{id}/save", progress.Unsave)
	mux.HandleFunc("GET /api/plans/saved", progress.Saved)
	mux.HandleFunc("GET /api/progress", progress.All)
	mux.HandleFunc("GET /api/progress/current", progress.Current)
	mux.HandleFunc("POST /api/progress/{id}/next", progress.NextDay)
	mux.HandleFunc("POST /api/progress/{id}/previous", progress.PreviousDay)
	mux.HandleFunc("POST /api/progress/current/day/{day}", progress.GoToDay)

	// Scripture
	mux.HandleFunc("GET /api/scripture/{ref}", scripture.Chapter)
	mux.HandleFunc("GET /api/scripture/{ref}/text", scripture.Text)
	mux.HandleFunc("POST /api/scripture/download", scripture.DownloadAll)
	mux.HandleFunc("GET /api/scripture/status", scripture.Status)

	// Verse of the day
	mux.HandleFunc("GET /api/verse/today", verse.Today)
	mux.HandleFunc("POST /api/verse/subscribe", verse.Subscribe)
	mux.HandleFunc("GET /api/verse/unsubscribe", verse.Unsubscribe)

	// Contact and prayer submissions (rate limited)
	submitLimiter := middleware.RateLimit(10, 15*time.Minute)
	mux.HandleFunc("POST /api/contact", submitLimiter(contact.Submit))

	// Admin console (password + emailed code, then Bearer token)
	authLimiter := middleware.RateLimit(5, 15*time.Minute)
	requireAdmin := middleware.RequireAdmin(app.AdminService)

	mux.HandleFunc("POST /api/admin/login", authLimiter(admin.Login))
	mux.HandleFunc("POST /api/admin/verify", authLimiter(admin.Verify))
	mux.HandleFunc("GET /api/admin/messages", requireAdmin(admin.Messages))
	mux.HandleFunc("GET /api/admin/messages/{id}", requireAdmin(admin.Message))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.SecurityHeaders,
	)
}
