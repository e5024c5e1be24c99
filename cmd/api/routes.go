package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/sthapati/sthapati_be/internal/config"
	"github.com/sthapati/sthapati_be/internal/handlers"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/otp"
	"github.com/sthapati/sthapati_be/internal/realtime"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/services/notify"
	"github.com/sthapati/sthapati_be/internal/storage"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type deps struct {
	cfg     *config.Config
	store   *store.Store
	rdb     *redis.Client
	hub     *realtime.Hub
	storage storage.Storage
	metrics *metrics.Metrics
}

func registerRoutes(app *fiber.App, d *deps) {
	cfg := d.cfg
	st := d.store
	v := validation.New()
	sessions := handlers.SessionIssuer{Secret: cfg.JWTSecret, ExpiresMin: cfg.JWTExpiresMin, Secure: cfg.CookieSecure}

	notifier := &notify.Notifier{
		Mailer:    notify.NewSMTPMailer(cfg.SMTP),
		Hub:       d.hub,
		Publisher: &realtime.Publisher{RDB: d.rdb},
	}

	authH := &handlers.AuthHandler{Users: st.Users, Validator: v, Sessions: sessions, Metrics: d.metrics}
	googleH := &handlers.GoogleOAuthHandler{
		Users:           st.Users,
		Sessions:        sessions,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
		Enabled:         cfg.GoogleEnabled(),
	}
	phoneH := &handlers.PhoneHandler{
		Users:     st.Users,
		OTP:       otp.NewStore(d.rdb, cfg.OTPTTL),
		SMS:       otp.LogSender{},
		Notifier:  notifier,
		Validator: v,
		Sessions:  sessions,
		Metrics:   d.metrics,
	}
	userH := &handlers.UserHandler{Users: st.Users, Posts: st.Posts, Storage: d.storage, Validator: v, Sessions: sessions}
	postH := &handlers.PostHandler{Posts: st.Posts, Validator: v}
	jobH := &handlers.JobHandler{Jobs: st.Jobs, Applications: st.Applications, Validator: v, Metrics: d.metrics}
	appH := &handlers.ApplicationHandler{Applications: st.Applications, Validator: v}
	annH := &handlers.AnnouncementHandler{Announcements: st.Announcements, Users: st.Users}
	adminH := &handlers.AdminHandler{
		Users:         st.Users,
		Posts:         st.Posts,
		Jobs:          st.Jobs,
		Applications:  st.Applications,
		Announcements: st.Announcements,
		Accounts:      account.NewService(st.Users, notifier),
		Notifier:      notifier,
		Validator:     v,
		Metrics:       d.metrics,
	}
	categoryH := handlers.NewCategoryHandler(st.Users)
	realtimeH := &handlers.RealtimeHandler{Hub: d.hub}

	authLimit := middleware.RateLimit(middleware.NewRateLimiter(rate.Limit(1), 10))
	otpLimit := middleware.RateLimit(middleware.NewRateLimiter(rate.Every(20*time.Second), 3))

	session := []fiber.Handler{
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
		middleware.LoadUser(st.Users),
	}

	// Registered ahead of the gate: fiber matches in registration order, so
	// these never reach it.
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(d.metrics.Handler()))
	app.Get("/ws", append(session[:2:2], realtimeH.Upgrade, realtimeH.Handle())...)

	app.Use(middleware.AccessGate(cfg.JWTSecret, d.metrics))

	api := app.Group("/api")
	api.Get("/categories", categoryH.GetCategories)

	// auth
	auth := api.Group("/auth")
	auth.Post("/register", authLimit, authH.Register)
	auth.Post("/login", authLimit, authH.Login)
	auth.Post("/logout", authH.Logout)
	auth.Get("/google/start", googleH.GoogleStart)
	auth.Get("/google/callback", googleH.GoogleCallback)

	authed := auth.Group("", session...)
	authed.Get("/session", authH.Session)
	authed.Post("/complete-registration", authH.CompleteRegistration)
	authed.Post("/phone/send-otp", otpLimit, phoneH.SendOTP)
	authed.Post("/phone/verify", otpLimit, phoneH.Verify)

	active := middleware.RequireActive()

	// users
	users := api.Group("/users", session...)
	users.Get("/", userH.Directory)
	users.Get("/me", userH.Me)
	users.Patch("/me", userH.UpdateMe)
	users.Post("/me/gallery", userH.UploadGallery)
	users.Delete("/me/gallery", userH.RemoveGallery)
	users.Get("/:id", userH.GetByID)

	// posts
	posts := api.Group("/posts", session...)
	posts.Get("/", postH.List)
	posts.Get("/:id", postH.Get)
	posts.Post("/", active, postH.Create)
	posts.Patch("/:id", active, postH.Update)
	posts.Delete("/:id", postH.Delete)
	posts.Post("/:id/like", active, postH.Like)

	// jobs
	jobs := api.Group("/jobs", session...)
	jobs.Get("/", jobH.List)
	jobs.Get("/:id", jobH.Get)
	jobs.Post("/", active, jobH.Create)
	jobs.Patch("/:id", active, jobH.Update)
	jobs.Delete("/:id", jobH.Delete)
	jobs.Post("/:id/apply", active, jobH.Apply)
	jobs.Get("/:id/applications", jobH.ListApplications)

	applications := api.Group("/applications", session...)
	applications.Get("/me", appH.Mine)
	applications.Patch("/:id/status", active, appH.UpdateStatus)

	// announcements
	announcements := api.Group("/announcements", session...)
	announcements.Get("/active", annH.Active)
	announcements.Post("/:id/dismiss", annH.Dismiss)

	// admin
	admin := api.Group("/admin", append(session, middleware.RequireAdmin())...)
	admin.Get("/users", adminH.ListUsers)
	admin.Get("/users/pending", adminH.PendingUsers)
	admin.Post("/users/:id/approve", adminH.Transition(account.ActionApprove))
	admin.Post("/users/:id/reject", adminH.Transition(account.ActionReject))
	admin.Post("/users/:id/ban", adminH.Transition(account.ActionBan))
	admin.Post("/users/:id/unban", adminH.Transition(account.ActionUnban))
	admin.Post("/users/:id/admin", adminH.SetAdmin)
	admin.Get("/stats", adminH.Stats)
	admin.Get("/announcements", adminH.ListAnnouncements)
	admin.Post("/announcements", adminH.CreateAnnouncement)
	admin.Patch("/announcements/:id", adminH.UpdateAnnouncement)
	admin.Delete("/announcements/:id", adminH.DeleteAnnouncement)

	if cfg.Storage.Type != "s3" {
		app.Static("/uploads", cfg.Storage.UploadDir)
	}
	if cfg.WebRoot != "" {
		app.Static("/", cfg.WebRoot, fiber.Static{Index: "index.html"})
	}
}
