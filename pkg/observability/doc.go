/*
Package observability wires pipeline lifecycle hooks and the runtime server
into Prometheus collectors. The pipeline core stays backend-agnostic: it
only knows domain.LifecycleHooks, and this package supplies a hook set that
records stage durations and step outcomes.
*/
package observability
