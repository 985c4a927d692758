package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"
	"github.com/mattn/go-sqlite3"
	"github.com/mbolis/museum-survey/app"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/metrics"
	"github.com/mbolis/museum-survey/model"
)

func PublicListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT id, name, active
			FROM survey
			WHERE active
			ORDER BY id`)
		if err != nil {
			httpx.LogInternalError(w, "db.list_surveys", err)
			return
		}
		defer rows.Close()

		surveys := []model.SurveyInfo{}
		for rows.Next() {
			s := model.SurveyInfo{}
			err = rows.Scan(&s.ID, &s.Name, &s.Active)
			if err != nil {
				httpx.LogInternalError(w, "db.list_surveys.scan", err)
				return
			}
			surveys = append(surveys, s)
		}

		render.JSON(w, r, surveys)
	}
}

func PublicGetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := urlId(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		survey, err := loadSurvey(r.Context(), app, surveyId, true)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func CreateFulfillment(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := model.FulfillmentRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err = validate.Struct(req); err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate", "%s", err)
			return
		}

		var fulfillmentId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO fulfillment (survey_id, time, ip)
			SELECT id, ?, ? FROM survey WHERE id = ? AND active
			RETURNING id`,
			time.Now(),
			clientIP(r),
			req.Survey,
		).Scan(&fulfillmentId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "create_fulfillment.survey", req.Survey)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.insert_fulfillment", err)
			return
		}

		metrics.FulfillmentsCreated.Inc()
		log.WithFields(log.Fields{"survey": req.Survey, "fulfillment": fulfillmentId}).
			Debug("create_fulfillment")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, model.Fulfillment{ID: fulfillmentId})
	}
}

func SubmitAnswer(app app.App) http.HandlerFunc {
	reject := func(w http.ResponseWriter, status int, reason string, msg string, args ...any) {
		metrics.AnswersRejected.WithLabelValues(reason).Inc()
		httpx.LogStatusMsg(w, status, log.DebugLevel, "submit_answer."+reason, msg, args...)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		answer := model.AnswerRequest{}
		err := render.DecodeJSON(r.Body, &answer)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err = validate.Struct(answer); err != nil {
			reject(w, http.StatusBadRequest, "invalid", "%s", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		var surveyId int
		err = tx.QueryRowContext(r.Context(), `
			SELECT survey_id FROM fulfillment WHERE id = ?`,
			answer.FulfillmentID,
		).Scan(&surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			metrics.AnswersRejected.WithLabelValues("fulfillment").Inc()
			httpx.LogNotFound(w, "submit_answer.fulfillment", answer.FulfillmentID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_fulfillment", err)
			return
		}

		survey, err := loadSurvey(r.Context(), tx, surveyId, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		question, ok := survey.Question(answer.QuestionID)
		if !ok {
			reject(w, http.StatusBadRequest, "question",
				"question %d does not belong to survey %d", answer.QuestionID, surveyId)
			return
		}

		options := dedupe(answer.SelectedOptionIDs)
		for _, opt := range options {
			if !question.HasOption(opt) {
				reject(w, http.StatusBadRequest, "option",
					"option %d does not belong to question %d", opt, question.ID)
				return
			}
		}
		value := ""
		switch question.Type {
		case model.Open:
			if len(options) > 0 {
				reject(w, http.StatusBadRequest, "option", "question %d takes no options", question.ID)
				return
			}
			value = answer.Value
		case model.Select:
			if len(options) != 1 {
				reject(w, http.StatusBadRequest, "option", "question %d takes exactly one option", question.ID)
				return
			}
		}

		var answerId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO answer (fulfillment_id, question_id, value) VALUES (?, ?, ?)
			RETURNING id`,
			answer.FulfillmentID,
			question.ID,
			value,
		).Scan(&answerId)
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			reject(w, http.StatusConflict, "duplicate",
				"question %d already answered in fulfillment %d", question.ID, answer.FulfillmentID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.insert_answer", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO answer_option (answer_id, option_id) VALUES (?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_answer.options.prepare", err)
			return
		}
		defer stmt.Close()

		for _, opt := range options {
			_, err = stmt.ExecContext(r.Context(), answerId, opt)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_answer.options.insert", err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_answer.commit", err)
			return
		}

		metrics.AnswersAccepted.WithLabelValues(string(question.Type)).Inc()

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": answerId,
		})
	}
}

func dedupe(ids []int) []int {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	out := make([]int, 0, len(sorted))
	for _, id := range sorted {
		if len(out) == 0 || out[len(out)-1] != id {
			out = append(out, id)
		}
	}
	return out
}
