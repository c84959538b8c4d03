/*
Package kiln executes declarative two-stage build recipes and serves the
result.

A recipe ("kilnfile.yaml") is an ordered list of named stages. The build
stage invokes external tools, such as a package manager and a bundler, to compile a
source tree into a directory of static assets. An artifact handoff copies
exactly that directory into the runtime stage, leaving dependency trees and
sources behind. The runtime stage is a static file server on a single port.

All real work is delegated to the external commands a recipe names; kiln
contributes the ordering, the isolation between stages, and the one-way
handoff.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/kilnbuild/kiln"
	)

	func main() {
		p, err := kiln.New("./my-site")
		if err != nil {
			log.Fatal(err)
		}

		img, err := p.Build(context.Background())
		if err != nil {
			log.Fatal(err)
		}

		// Foreground, like a container's main process.
		if err := p.Serve(context.Background(), img, 0); err != nil {
			log.Fatal(err)
		}
	}

Failures are fatal by design: a dependency-resolution error, a compile
error, a missing handoff artifact, or an occupied port each abort the run
with the underlying tool's diagnostics intact. There is no retry and no
partial promotion.
*/
package kiln
