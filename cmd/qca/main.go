// Command qca runs the cellular-automaton track-reconstruction pipeline
// against a CSV hit sample, or reports on a previously persisted run.
package main

import (
	"context"

	"github.com/hepqca/qca/cmd/qca/cmd"
	"github.com/hepqca/qca/pkg/telemetry"
)

func main() {
	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(ctx)

	cmd.Execute()
}
