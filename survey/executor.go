package survey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/model"
	"golang.org/x/sync/errgroup"
)

// Backend is the remote survey service.
type Backend interface {
	GetSurvey(ctx context.Context, id int) (model.Survey, error)
	CreateFulfillment(ctx context.Context, surveyID int) (model.Fulfillment, error)
	SubmitAnswer(ctx context.Context, answer model.AnswerRequest) error
}

type Result struct {
	FulfillmentID int
	Submitted     int
	Failed        int
}

// Executor sends one survey submission: a fulfillment followed by one
// request per answer. Answers already accepted are kept when others fail.
type Executor struct {
	backend       Backend
	maxConcurrent int
	answerTimeout time.Duration
}

// NewExecutor returns an executor. maxConcurrent <= 0 sends all answers at
// once; answerTimeout <= 0 waits on each answer indefinitely.
func NewExecutor(backend Backend, maxConcurrent int, answerTimeout time.Duration) *Executor {
	return &Executor{
		backend:       backend,
		maxConcurrent: maxConcurrent,
		answerTimeout: answerTimeout,
	}
}

func (x *Executor) Run(ctx context.Context, sv model.Survey, raw map[string]any) (Result, error) {
	fulfillment, err := x.backend.CreateFulfillment(ctx, sv.ID)
	if err != nil {
		return Result{}, fmt.Errorf("survey.create_fulfillment: %w", err)
	}
	res := Result{FulfillmentID: fulfillment.ID}

	answers := Compile(raw, sv.Questions, fulfillment.ID)
	if skipped := len(raw) - len(answers); skipped > 0 {
		log.WithFields(log.Fields{"survey": sv.ID, "skipped": skipped}).
			Debug("survey.compile: dropped unresolvable fields")
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs *multierror.Error
	)
	if x.maxConcurrent > 0 {
		g.SetLimit(x.maxConcurrent)
	}
	for _, answer := range answers {
		answer := answer
		g.Go(func() error {
			err := x.submit(ctx, answer)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				errs = multierror.Append(errs, fmt.Errorf("question %d: %w", answer.QuestionID, err))
			} else {
				res.Submitted++
			}
			// siblings keep running: every answer must settle
			return nil
		})
	}
	g.Wait()

	log.WithFields(log.Fields{
		"survey":      sv.ID,
		"fulfillment": fulfillment.ID,
		"submitted":   res.Submitted,
		"failed":      res.Failed,
	}).Debug("survey.submit_answers")

	return res, errs.ErrorOrNil()
}

func (x *Executor) submit(ctx context.Context, answer model.AnswerRequest) error {
	if x.answerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.answerTimeout)
		defer cancel()
	}
	return x.backend.SubmitAnswer(ctx, answer)
}
