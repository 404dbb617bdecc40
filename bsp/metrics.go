// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"goquake3/model"
)

const (
	resultLabel = "result"
	reasonLabel = "reason"
)

var (
	mapLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bsp_map_loads",
		Help: "The number of map loads by result.",
	}, []string{
		resultLabel,
	})

	mapLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bsp_map_load_latency",
		Help:    "The time to load a map.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	spawnPointsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bsp_spawn_points_dropped",
		Help: "Spawn points ignored because the capacity was reached.",
	})

	visFailOpen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bsp_vis_fail_open",
		Help: "Visibility lookups outside the cluster matrix that were treated as visible.",
	})

	renderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bsp_render_latency",
		Help:    "The time to traverse the map for one frame.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})

	renderFaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bsp_render_faces",
		Help: "Faces submitted to the backend.",
	})

	renderCulledLeafs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bsp_render_culled_leafs",
		Help: "Leafs skipped during traversal.",
	}, []string{
		reasonLabel,
	})
)

func instrumentLoad(start time.Time, err error) {
	mapLoadLatency.Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = errorType(err)
	}
	mapLoads.With(prometheus.Labels{
		resultLabel: result,
	}).Inc()
}

func instrumentSpawnsDropped(n int) {
	spawnPointsDropped.Add(float64(n))
}

func instrumentVisFailOpen() {
	visFailOpen.Inc()
}

func instrumentRender(start time.Time, st model.Stats) {
	renderLatency.Observe(time.Since(start).Seconds())
	renderFaces.Add(float64(st.Faces))
	renderCulledLeafs.With(prometheus.Labels{reasonLabel: "pvs"}).Add(float64(st.PVSCulled))
	renderCulledLeafs.With(prometheus.Labels{reasonLabel: "frustum"}).Add(float64(st.FrustumCulled))
}
