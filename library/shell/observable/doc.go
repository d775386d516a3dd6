// Package observable wraps command and query handlers with metrics, tracing and logging,
// so that the handlers themselves contain only Load -> Decide -> Commit.
//
// Wrapping happens explicitly at wiring time:
//
//	core := returnbook.NewCommandHandler(store, settings)
//	handler, err := observable.NewCommandWrapper[returnbook.Command](
//		core,
//		observable.WithCommandMetrics[returnbook.Command](metricsCollector),
//		observable.WithCommandTracing[returnbook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[returnbook.Command](contextualLogger),
//	)
//
// Business rule violations (errors carrying a core.ErrCode) are recorded with status
// "rejected" and logged at warn level; infrastructure failures with status "error".
package observable
