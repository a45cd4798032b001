// Package cli contains the cobra commands. Each command constructor lives
// in its own file and wires services through the wire package.
package cli

import (
	"context"
	"os"

	"github.com/example/tally/internal/ctxutil"
	"github.com/example/tally/internal/wire"
)

// actorContext returns a context carrying the invoking actor, taken from
// the config or falling back to the OS user.
func actorContext() context.Context {
	actor := wire.Cfg().Actor
	if actor == "" {
		actor = os.Getenv("USER")
	}
	return ctxutil.WithActorID(context.Background(), actor)
}
