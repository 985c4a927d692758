package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FulfillmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qsurvey",
		Name:      "fulfillments_created_total",
		Help:      "Survey fulfillments created.",
	})

	AnswersAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qsurvey",
		Name:      "answers_accepted_total",
		Help:      "Survey answers stored, by question type.",
	}, []string{"type"})

	AnswersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qsurvey",
		Name:      "answers_rejected_total",
		Help:      "Survey answers refused, by reason.",
	}, []string{"reason"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
