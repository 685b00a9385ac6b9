package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

const (
	idParam    = `{id:^[0-9a-fA-F-]+$}`
	indexParam = `{index:^\d+$}`
)

func Wire(app app.App) http.Handler {
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.Logger,
		NoColor: true,
	})

	root := chi.NewRouter()
	root.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.Get("/forms/"+idParam, PublicFormPage(app))
	root.Post("/forms/"+idParam, PublicSubmitPage(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Get("/admin/preview", PreviewDraft(app))

	root.Mount("/", servePublicFiles(app.StaticDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms/"+idParam, PublicGetFormById(app))
	api.Post("/forms/"+idParam+"/submit", PublicSubmitForm(app))

	api.With(middlewares.Admin(app.TokenSecret)).Post("/forms", CreateForm(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Get("/forms", ListForms(app))
		r.Get("/forms/"+idParam, GetFormById(app))
		r.Patch("/forms/"+idParam+"/status", UpdateFormStatus(app))
		r.Delete("/forms/"+idParam, DeleteForm(app))
		r.Get("/forms/"+idParam+"/submissions", GetFormSubmissions(app))

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", GetDraft(app))
			r.Delete("/", ClearDraft(app))
			r.Put("/form", ReplaceDraft(app))
			r.Patch("/form", UpdateDraftDetails(app))
			r.Put("/settings", UpdateDraftPublish(app))

			r.Post("/categories", AddDraftCategory(app))
			r.Delete("/categories/{name}", RemoveDraftCategory(app))

			r.Post("/fields", AddDraftField(app))
			r.Put("/fields/"+indexParam, UpdateDraftField(app))
			r.Delete("/fields/"+indexParam, RemoveDraftField(app))
			r.Post("/fields/"+indexParam+"/options", AddDraftOption(app))
			r.Delete("/fields/"+indexParam+"/options/{option}", RemoveDraftOption(app))
			r.Put("/fields/"+indexParam+"/array-config", UpdateDraftArrayConfig(app))

			r.Get("/review", ReviewDraft(app))
			r.Post("/publish", PublishDraft(app))
		})
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}
