package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"legacyvoices-backend-go/internal/config"
	"legacyvoices-backend-go/internal/services"
)

type Server struct {
	DB     *sqlx.DB
	Config config.Config
	Tokens services.TokenService
	Mailer services.Mailer
}

func NewServer(db *sqlx.DB, cfg config.Config) *Server {
	tokens := services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    time.Duration(cfg.TokenTTLSeconds) * time.Second,
	}
	mailer := services.Mailer{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		FromEmail:   cfg.MailFromEmail,
		FromName:    cfg.MailFromName,
		AdminNotify: cfg.AdminNotifyEmail,
	}
	return &Server{
		DB:     db,
		Config: cfg,
		Tokens: tokens,
		Mailer: mailer,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/stories", s.SubmitStory)
		api.Get("/stories/approved", s.PublicApproved)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", s.Login)
			admin.Group(func(protected chi.Router) {
				protected.Use(WithAuth(s.Tokens, s.DB))
				protected.Get("/stats", s.Stats)
				protected.Get("/metrics/history", s.MetricsHistory)
				protected.Route("/stories", func(stories chi.Router) {
					stories.Get("/", s.AdminListStories)
					stories.Get("/{storyId}", s.AdminStoryDetail)
					stories.Post("/{storyId}/approve", s.ApproveStory)
					stories.Post("/{storyId}/reject", s.RejectStory)
					stories.Delete("/{storyId}", s.DeleteStory)
				})
			})
		})
	})

	r.Get("/uploads/{storageKey}", s.ServeUpload)
	return r
}
