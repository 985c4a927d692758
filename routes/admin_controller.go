package routes

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/mbolis/museum-survey/app"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/model"
)

// checkQuestions enforces what struct tags cannot express: choice
// questions carry options, open questions carry none.
func checkQuestions(questions []model.Question) error {
	for i, q := range questions {
		switch {
		case q.Type.HasOptions() && len(q.Options) == 0:
			return fmt.Errorf("question %d: %s needs options", i, q.Type)
		case !q.Type.HasOptions() && len(q.Options) > 0:
			return fmt.Errorf("question %d: %s takes no options", i, q.Type)
		}
	}
	return nil
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err = validate.Struct(survey); err == nil {
			err = checkQuestions(survey.Questions)
		}
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate", "%s", err)
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
			INSERT INTO survey (name, active) VALUES (?, ?)
			RETURNING id`,
			survey.Name,
			survey.Active,
		).Scan(&surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		questionStmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO question (survey_id, position, type, text) VALUES (?, ?, ?, ?)
			RETURNING id`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.questions.prepare", err)
			return
		}
		defer questionStmt.Close()

		optionStmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO question_option (question_id, position, label) VALUES (?, ?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.options.prepare", err)
			return
		}
		defer optionStmt.Close()

		for i, q := range survey.Questions {
			var questionId int
			err = questionStmt.QueryRowContext(r.Context(), surveyId, i, q.Type, q.Text).Scan(&questionId)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_survey.questions.insert", err)
				return
			}

			for j, o := range q.Options {
				_, err = optionStmt.ExecContext(r.Context(), questionId, j, o.Label)
				if err != nil {
					httpx.LogInternalError(w, "db.insert_survey.options.insert", err)
					return
				}
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.commit", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": surveyId,
		})
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT id, name, active
			FROM survey
			ORDER BY id`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}
		defer rows.Close()

		surveys := []model.SurveyInfo{}
		for rows.Next() {
			s := model.SurveyInfo{}
			err = rows.Scan(&s.ID, &s.Name, &s.Active)
			if err != nil {
				httpx.LogInternalError(w, "db.get_surveys.scan", err)
				return
			}

			surveys = append(surveys, s)
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := urlId(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		survey, err := loadSurvey(r.Context(), app, surveyId, false)
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

func SetSurveyActive(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := urlId(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var body struct {
			Active *bool `json:"active" validate:"required"`
		}
		err = render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err = validate.Struct(body); err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate", "%s", err)
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE survey
			SET
				active = ?,
				version = version+1
			WHERE id = ?`,
			*body.Active,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "update_survey", surveyId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSurvey drops the survey together with its questions and every
// fulfillment collected for it.
func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := urlId(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM survey WHERE id = ?`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_survey", surveyId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetSurveyFulfillments(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := urlId(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var exists bool
		err = app.QueryRowContext(r.Context(), `
			SELECT 1 FROM survey WHERE id = ?`,
			surveyId,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_fulfillments", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_fulfillments.survey", err)
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT
				f.id, f.time,
				a.question_id, a.value,
				ao.option_id
			FROM fulfillment f
			LEFT OUTER JOIN answer a ON (f.id = a.fulfillment_id)
			LEFT OUTER JOIN answer_option ao ON (a.id = ao.answer_id)
			WHERE f.survey_id = ?
			ORDER BY f.id, a.question_id, ao.option_id`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_fulfillments", err)
			return
		}
		defer rows.Close()

		fulfillments := []model.FulfillmentRecord{}
		for rows.Next() {
			var (
				id       int
				at       time.Time
				question sql.NullInt64
				value    sql.NullString
				option   sql.NullInt64
			)
			err = rows.Scan(&id, &at, &question, &value, &option)
			if err != nil {
				httpx.LogInternalError(w, "db.get_fulfillments.scan", err)
				return
			}

			last := len(fulfillments) - 1
			if last < 0 || fulfillments[last].ID != id {
				fulfillments = append(fulfillments, model.FulfillmentRecord{
					ID:      id,
					Time:    at,
					Answers: []model.AnswerValue{},
				})
				last++
			}
			if !question.Valid {
				continue
			}

			f := &fulfillments[last]
			n := len(f.Answers) - 1
			if n < 0 || f.Answers[n].QuestionID != int(question.Int64) {
				f.Answers = append(f.Answers, model.AnswerValue{
					QuestionID: int(question.Int64),
					Value:      value.String,
				})
				n++
			}
			if option.Valid {
				f.Answers[n].Options = append(f.Answers[n].Options, int(option.Int64))
			}
		}
		if err = rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_fulfillments.rows", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"fulfillments": fulfillments,
		})
	}
}
