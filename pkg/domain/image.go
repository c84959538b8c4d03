package domain

// Image is the result of a successful pipeline run: the final stage's
// filesystem plus the serving declarations recorded along the way.
// The directory is treated as immutable once produced; the runtime server
// only ever reads from it.
type Image struct {
	// Dir is the final stage directory. It contains exactly what the
	// handoff steps copied in, never the build stage's tooling or sources.
	Dir string

	// Port is the port declared by an expose step, or 0 if none.
	Port int

	// Entrypoint is the declared foreground command. Like a container
	// image's CMD it is metadata: recorded, printed, and honored by
	// `kiln run`, but not executed during the build itself.
	Entrypoint []string
}
