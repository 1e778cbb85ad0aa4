package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campus_diary"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// LikesToggled counts like toggles by target kind and resulting state.
var LikesToggled = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_toggled_total",
		Help:      "Total number of like toggles",
	},
	[]string{"kind", "result"}, // result: liked|unliked
)

// EmailsSent counts transactional email attempts.
var EmailsSent = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of transactional emails attempted",
	},
	[]string{"template", "status"}, // status: success|error
)

// MediaUploads counts uploads to the media host.
var MediaUploads = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads",
	},
	[]string{"provider", "status"},
)

// CascadeDeletes counts child records removed when a post is deleted.
var CascadeDeletes = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_records_total",
		Help:      "Comments and likes removed together with their post",
	},
	[]string{"kind", "record"},
)

// OrphansSwept counts records removed by the reconciliation sweep.
var OrphansSwept = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphans_swept_total",
		Help:      "Comments and likes removed because their post no longer exists",
	},
	[]string{"record"},
)

var initOnce sync.Once

// Init registers the Go runtime and process collectors.
func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Status is a label value for success/error outcomes.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
