package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled on shutdown so that handlers stop waiting for
// queued requests. Defaults to Background.
var serverBaseCtx = context.Background()

// SetBaseContext sets the shutdown context used by handlers. nil resets it.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// requestContext derives the context a handler waits under. It ends when the
// client goes away, when serverBaseCtx is canceled, or once the configured
// wait timeout elapses (context.DeadlineExceeded). Request-scoped values such
// as the chi request id are preserved.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(serverBaseCtx, cancel)
	release := func() {
		stop()
		cancel()
	}
	if inferTimeout <= 0 {
		return ctx, release
	}
	tctx, tcancel := context.WithTimeout(ctx, inferTimeout)
	return tctx, func() {
		tcancel()
		release()
	}
}
