package routes

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mbolis/museum-survey/model"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// loadSurvey reads a survey with its questions and options, in position
// order. It returns sql.ErrNoRows for an unknown survey, or for an inactive
// one when onlyActive is set.
func loadSurvey(ctx context.Context, db queryer, surveyId int, onlyActive bool) (model.Survey, error) {
	survey := model.Survey{ID: surveyId, Questions: []model.Question{}}
	err := db.QueryRowContext(ctx, `
		SELECT name, active FROM survey WHERE id = ?`,
		surveyId,
	).Scan(&survey.Name, &survey.Active)
	if err != nil {
		return model.Survey{}, err
	}
	if onlyActive && !survey.Active {
		return model.Survey{}, sql.ErrNoRows
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			q.id, q.type, q.text,
			o.id, o.label
		FROM question q
		LEFT OUTER JOIN question_option o ON (q.id = o.question_id)
		WHERE q.survey_id = ?
		ORDER BY q.position, o.position`,
		surveyId,
	)
	if err != nil {
		return model.Survey{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var q model.Question
		var optId sql.NullInt64
		var optLabel sql.NullString
		err = rows.Scan(&q.ID, &q.Type, &q.Text, &optId, &optLabel)
		if err != nil {
			return model.Survey{}, err
		}

		last := len(survey.Questions) - 1
		if last < 0 || survey.Questions[last].ID != q.ID {
			q.Options = []model.Option{}
			survey.Questions = append(survey.Questions, q)
			last++
		}
		if optId.Valid {
			survey.Questions[last].Options = append(survey.Questions[last].Options, model.Option{
				ID:    int(optId.Int64),
				Label: optLabel.String,
			})
		}
	}
	return survey, rows.Err()
}

func urlId(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
