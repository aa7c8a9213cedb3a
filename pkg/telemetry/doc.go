// Package telemetry exports group activity to Prometheus and OpenTelemetry.
//
// NewObserver returns a group.Observer that counts transitions and refusals
// and tracks selection and registration gauges per group:
//
//	obs := telemetry.NewObserver(telemetry.WithNamespace("groupkit"))
//	g := group.New(cfg, group.WithName("tabs"), group.WithObserver(obs))
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Tracer wraps group operations in spans named "groupkit.<op>":
//
//	tracer := telemetry.NewTracer()
//	outcome, err := tracer.Trace(ctx, "tabs", group.OpToggle,
//	    func(ctx context.Context) (group.Outcome, error) {
//	        return g.Toggle(id), nil
//	    })
package telemetry
