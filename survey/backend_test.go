package survey_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mbolis/museum-survey/model"
	"github.com/mbolis/museum-survey/survey"
)

var errBoom = errors.New("boom")

// fakeBackend records calls. Answers to failQuestion fail; delays shift
// the order in which answers settle. Gates hold a survey fetch or every
// answer until closed.
type fakeBackend struct {
	survey       model.Survey
	getErr       error
	fulfillErr   error
	failQuestion int
	delays       map[int]time.Duration
	getGates     map[int]chan struct{}
	answerGate   chan struct{}

	mu           sync.Mutex
	gets         int
	fulfillments int
	answers      []model.AnswerRequest
	inFlight     int
	maxInFlight  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{survey: sampleSurvey()}
}

func (b *fakeBackend) GetSurvey(ctx context.Context, id int) (model.Survey, error) {
	b.mu.Lock()
	b.gets++
	gate := b.getGates[id]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Survey{}, ctx.Err()
		}
	}

	if b.getErr != nil {
		return model.Survey{}, b.getErr
	}
	if id != b.survey.ID {
		return model.Survey{}, survey.ErrNotFound
	}
	return b.survey, nil
}

func (b *fakeBackend) CreateFulfillment(ctx context.Context, surveyID int) (model.Fulfillment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fulfillments++

	if b.fulfillErr != nil {
		return model.Fulfillment{}, b.fulfillErr
	}
	return model.Fulfillment{ID: 100 + b.fulfillments}, nil
}

func (b *fakeBackend) SubmitAnswer(ctx context.Context, answer model.AnswerRequest) error {
	b.mu.Lock()
	b.answers = append(b.answers, answer)
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	delay := b.delays[answer.QuestionID]
	gate := b.answerGate
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight--
		b.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if answer.QuestionID == b.failQuestion {
		return errBoom
	}
	return nil
}

func (b *fakeBackend) calls() (gets, fulfillments, answers int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets, b.fulfillments, len(b.answers)
}
