package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Routes builds the router. Kept separate from handler logic so tests can
// exercise the full surface through httptest.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", a.health)

	r.Post("/summarizer", a.createSummarizer)
	r.Post("/summarizer/", a.createSummarizer)
	r.Get("/summarizer", a.listSummarizers)

	r.Post("/summarizer/{id}", a.createSummarizer)
	r.Get("/summarizer/{id}", a.getSummarizer)
	r.Delete("/summarizer/{id}", a.deleteSummarizer)
	r.Post("/summarizer/{id}/summarize", a.summarize)
	r.Get("/summarizer/{id}/receipt", a.lastReceipt)

	r.Post("/webhook/{id}", a.receiveWebhook)

	return r
}
