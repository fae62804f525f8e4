package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var coordinatorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "station_tv",
	Name:      "coordinator_requests_total",
	Help:      "Requests seen by the media cache coordinator, partitioned by route and outcome",
}, []string{"route", "result"})

var precacheItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "station_tv",
	Name:      "precache_items_total",
	Help:      "Media items warmed by precache requests, partitioned by result",
}, []string{"result"})

var playbackAdvances = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "station_tv",
	Name:      "playback_advances_total",
	Help:      "Playlist advances, partitioned by trigger",
}, []string{"trigger"})

var cacheGCDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "station_tv",
	Name:      "cache_partitions_deleted_total",
	Help:      "Cache partitions removed on activation",
})

func CoordinatorRequest(route, result string) {
	coordinatorRequests.WithLabelValues(route, result).Inc()
}

func PrecacheItem(result string) {
	precacheItems.WithLabelValues(result).Inc()
}

func PlaybackAdvance(trigger string) {
	playbackAdvances.WithLabelValues(trigger).Inc()
}

func CachePartitionDeleted() {
	cacheGCDeleted.Inc()
}
