package httpapi

import "context"

// serverBaseCtx ties in-flight predict work to the server's lifetime. The
// daemon installs its signal context here before serving, so a shutdown
// cancels running predictions the same way a client disconnect does. Until
// then it is Background and never fires.
var serverBaseCtx = context.Background()

// SetBaseContext installs the server-lifetime context the predict handler
// folds into every request. Passing nil resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context that ends as soon as either input does,
// letting a handler honor the request context and the server lifetime at
// once. Callers must invoke cancel to release the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
		case <-b.Done():
		case <-ctx.Done():
		}
		cancel()
	}()
	return ctx, cancel
}
