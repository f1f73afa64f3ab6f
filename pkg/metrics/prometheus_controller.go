package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-rp/cadhub/pkg/application"
)

type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = "/debug/prometheus"
	}
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}

// ApprovalTransitions counts workflow transitions by kind and outcome.
var ApprovalTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cadhub_approval_transitions_total",
		Help: "Approval workflow transitions by request kind and outcome.",
	},
	[]string{"kind", "outcome"},
)
