package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/mbolis/museum-survey/app"
	"github.com/mbolis/museum-survey/metrics"
	"github.com/mbolis/museum-survey/routes/middlewares"
)

var validate = validator.New()

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Handle("/metrics", metrics.Handler())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// visitor endpoints
	api.Get("/survey", PublicListSurveys(app))
	api.Get("/survey/", PublicListSurveys(app))
	api.Get(`/survey/{id:^\d+$}`, PublicGetSurveyById(app))
	api.Post("/survey-fulfillment/", CreateFulfillment(app))
	api.Post("/survey-answer/", SubmitAnswer(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD survey
		r.Post("/surveys", CreateSurvey(app))
		r.Get("/surveys", ListSurveys(app))
		r.Get(`/surveys/{id:^\d+$}`, GetSurveyById(app))
		r.Put(`/surveys/{id:^\d+$}/active`, SetSurveyActive(app))
		r.Delete(`/surveys/{id:^\d+$}`, DeleteSurvey(app))

		r.Get(`/surveys/{id:^\d+$}/fulfillments`, GetSurveyFulfillments(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
