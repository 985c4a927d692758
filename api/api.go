// Package api talks to the museum survey backend.
package api

import (
	"context"
	"strconv"

	"github.com/mbolis/museum-survey/config"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/model"
	"github.com/mbolis/museum-survey/survey"
	"github.com/pkg/errors"
)

// Transport issues JSON requests relative to the API root.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Client implements survey.Backend.
type Client struct {
	transport Transport
}

var _ survey.Backend = (*Client)(nil)

func New(transport Transport) *Client {
	return &Client{transport: transport}
}

// Dial builds a Client over HTTP from client configuration.
func Dial(cfg config.Client) (*Client, error) {
	transport, err := httpx.NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return New(transport), nil
}

// NewStore builds a survey store talking to the backend described by cfg,
// usually read with config.ClientFromEnv. Answer concurrency and timeout come
// from cfg; opts are applied after them.
func NewStore(cfg config.Client, opts ...survey.Option) (*survey.Store, error) {
	client, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]survey.Option{
		survey.WithConcurrency(cfg.MaxConcurrent),
		survey.WithAnswerTimeout(cfg.AnswerTimeout),
	}, opts...)
	return survey.NewStore(client, opts...), nil
}

// GetSurvey fetches a survey with its questions. A missing or inactive
// survey yields an error matching survey.ErrNotFound.
func (c *Client) GetSurvey(ctx context.Context, id int) (model.Survey, error) {
	var sv model.Survey
	err := c.transport.Get(ctx, "survey/"+strconv.Itoa(id), &sv)
	if err != nil {
		if httpx.IsNotFound(err) {
			return model.Survey{}, errors.Wrapf(survey.ErrNotFound, "survey %d: %s", id, err)
		}
		return model.Survey{}, errors.Wrap(err, "api.get_survey")
	}
	return sv, nil
}

// ListSurveys returns the active surveys, without questions.
func (c *Client) ListSurveys(ctx context.Context) ([]model.SurveyInfo, error) {
	var surveys []model.SurveyInfo
	if err := c.transport.Get(ctx, "survey", &surveys); err != nil {
		return nil, errors.Wrap(err, "api.list_surveys")
	}
	return surveys, nil
}

func (c *Client) CreateFulfillment(ctx context.Context, surveyID int) (model.Fulfillment, error) {
	var f model.Fulfillment
	err := c.transport.Post(ctx, "survey-fulfillment/", model.FulfillmentRequest{Survey: surveyID}, &f)
	if err != nil {
		return model.Fulfillment{}, errors.Wrap(err, "api.create_fulfillment")
	}
	if f.ID == 0 {
		return model.Fulfillment{}, errors.New("api.create_fulfillment: response carries no id")
	}
	return f, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, answer model.AnswerRequest) error {
	err := c.transport.Post(ctx, "survey-answer/", answer, nil)
	return errors.Wrapf(err, "api.submit_answer question=%d", answer.QuestionID)
}
