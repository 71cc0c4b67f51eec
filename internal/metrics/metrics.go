package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookmarksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfd_bookmarks_created_total",
		Help: "Bookmarks successfully created.",
	})

	BookmarksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfd_bookmarks_deleted_total",
		Help: "Bookmarks successfully deleted.",
	})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfd_api_requests_total",
		Help: "API requests by operation and outcome.",
	}, []string{"op", "status"})

	BookmarksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shelfd_bookmarks_total",
		Help: "Total number of bookmarks in the database.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shelfd_users_total",
		Help: "Total number of registered users in the database.",
	})
)
