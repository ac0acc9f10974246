/*
Package monitoring provides Prometheus metrics for the shell and its API.

# Features

- Shell command counts and latency by command and outcome
- Open session and virtual filesystem node gauges
- HTTP request metrics labelled by route
- WebSocket connection and message metrics
- Uptime and Go runtime metrics

Each Metrics value owns a private registry. It satisfies shell.Recorder, so
sessions report their commands directly.

# Usage

	metrics := monitoring.NewMetrics()
	metrics.TrackNodes(tree.Len)

	mgr := shell.NewManager(tree, shell.Options{Recorder: metrics})
	mgr.OnChange(metrics.SetSessionsActive)

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
