package httpapi

import (
	"context"
	"net/http"
	"time"

	"codemart-backend-go/internal/config"
	"codemart-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	Events     *services.EventHub
	MetricsHub *services.MetricsHub
	Store      *services.ObjectStore
	Payments   *services.RazorpayClient
	Chat       *services.GeminiClient
	Mailer     services.FeedbackMailer
	Validate   *validator.Validate
}

func NewServer(db *sqlx.DB, cfg config.Config, events *services.EventHub, metrics *services.MetricsHub, store *services.ObjectStore) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		Events:     events,
		MetricsHub: metrics,
		Store:      store,
		Payments:   services.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayAPIURL),
		Chat:       services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiModel, time.Duration(cfg.ChatTimeoutMs)*time.Millisecond),
		Mailer: services.FeedbackMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.FeedbackTo,
		},
		Validate: validator.New(),
	}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Get("/", s.Me)
			me.Get("/roles", s.MyRoles)
			me.Put("/profile", s.UpdateProfile)
			me.Get("/preferences", s.GetPreferences)
			me.Put("/preferences", s.UpdatePreferences)
			me.Put("/password", s.ChangePassword)
			me.Delete("/", s.DeleteAccount)
			me.Post("/ping", s.Ping)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole(services.RoleAdmin))
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Route("/users", func(users chi.Router) {
				users.Get("/", s.ListUsers)
				users.Post("/", s.CreateUser)
				users.Put("/{userId}", s.UpdateUser)
				users.Delete("/{userId}", s.DeleteUser)
				users.Post("/{userId}/roles", s.AssignRole)
				users.Delete("/{userId}/roles/{role}", s.RemoveRole)
			})
		})

		api.Route("/creator", func(creator chi.Router) {
			creator.Use(WithAuth(s.Tokens))
			creator.Use(RequireAnyRole(services.RoleCreator, services.RoleAdmin))

			creator.Route("/materials", func(materials chi.Router) {
				materials.Get("/", s.CreatorListMaterials)
				materials.Post("/", s.CreateMaterial)
				materials.Get("/{materialId}", s.CreatorMaterialDetail)
				materials.Put("/{materialId}", s.UpdateMaterial)
				materials.Delete("/{materialId}", s.DeleteMaterial)
			})

			creator.Route("/gallery", func(gallery chi.Router) {
				gallery.Get("/", s.CreatorListGallery)
				gallery.Post("/", s.CreateGalleryImage)
				gallery.Put("/{imageId}", s.UpdateGalleryImage)
				gallery.Delete("/{imageId}", s.DeleteGalleryImage)
			})

			creator.Route("/image-categories", func(categories chi.Router) {
				categories.Post("/", s.CreateImageCategory)
				categories.Put("/{categoryId}", s.UpdateImageCategory)
				categories.Delete("/{categoryId}", s.DeleteImageCategory)
			})
		})

		api.Route("/public", func(pub chi.Router) {
			pub.Get("/search", s.PublicSearch)
			pub.Post("/visits", s.TrackVisit)
			pub.Get("/visits/count", s.VisitCount)
			pub.Post("/feedback", s.SubmitFeedback)
			pub.Post("/chat", s.ChatRelay)

			pub.Route("/materials", func(materials chi.Router) {
				materials.Get("/", s.PublicMaterials)
				materials.Get("/search", s.SearchMaterials)
				materials.Get("/{materialId}", s.PublicMaterialDetail)
				materials.With(WithOptionalAuth(s.Tokens)).Get("/{materialId}/download", s.DownloadMaterial)
				materials.Get("/{materialId}/interactions", s.MaterialInteractions)
				materials.With(WithOptionalAuth(s.Tokens)).Post("/{materialId}/interactions", s.CreateInteraction)
			})

			pub.Route("/gallery", func(gallery chi.Router) {
				gallery.Get("/", s.PublicGallery)
				gallery.Get("/categories", s.PublicImageCategories)
			})

			pub.Route("/payments", func(payments chi.Router) {
				payments.Use(WithOptionalAuth(s.Tokens))
				payments.Post("/orders", s.CreatePaymentOrder)
				payments.Post("/verify", s.VerifyPayment)
			})
		})

		api.Route("/media", func(media chi.Router) {
			media.Get("/assets/{assetId}/content", s.MediaContent)
			media.Group(func(uploads chi.Router) {
				uploads.Use(WithAuth(s.Tokens))
				uploads.Post("/uploads/avatar", s.UploadAvatar)
				uploads.With(RequireAnyRole(services.RoleCreator, services.RoleAdmin)).Post("/uploads/material", s.UploadMaterialFile)
				uploads.With(RequireAnyRole(services.RoleCreator, services.RoleAdmin)).Post("/uploads/gallery", s.UploadGalleryImage)
			})
		})
	})

	r.Get("/ws/events", s.EventsSocket)
	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
