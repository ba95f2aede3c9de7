/*
Package observability turns controller lifecycle hooks into logs and
Prometheus metrics.

Hooks from several sinks are combined with Merge:

	hooks := observability.Merge(
		observability.LogHooks(logger),
		metrics.Hooks(),
	)
	ctrl := controller.New(engine, controller.WithLifecycleHooks(hooks))
*/
package observability
