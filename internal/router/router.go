package router

import (
	"net/http"

	"berbook/internal/controller"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(c *controller.Controller) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", c.Ping)

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/new", c.NewQuote)
			r.Patch("/{quoteId}", c.EditQuote)
			r.Post("/{quoteId}/promote", c.PromoteQuote)
			r.Post("/{quoteId}/bid", c.NewQuoteBid)
			r.Get("/{quoteId}/lowest_bid", c.QuoteLowestBid)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/new", c.NewJob)
			r.Get("/my", c.MyJobs)
			r.Get("/search", c.SearchJobs)
			r.Get("/open", c.OpenWork)
			r.Patch("/{jobId}", c.EditJob)
			r.Post("/{jobId}/bid", c.NewJobBid)
			r.Get("/{jobId}/lowest_bid", c.JobLowestBid)
			r.Get("/{jobId}/payments", c.JobPayments)
		})

		r.Route("/bids", func(r chi.Router) {
			r.Get("/my", c.MyBids)
			r.Get("/{bidId}", c.BidDetail)
			r.Post("/{bidId}/accept", c.AcceptBid)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", c.Projects)
			r.Get("/{projectId}", c.ProjectDetail)
			r.Put("/{projectId}/status", c.SetProjectStatus)
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/{assessmentId}", c.AssessmentDetail)
			r.Patch("/{assessmentId}", c.EditAssessment)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", c.Notifications)
			r.Put("/{notificationId}/read", c.MarkNotificationRead)
		})

		r.Post("/payments/session", c.NewPaymentSession)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", c.AdminStats)
			r.Get("/work", c.AdminWork)
		})
	})

	return r
}
