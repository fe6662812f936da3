package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type result struct {
	cb  *Callback
	err error
}

// Listener is a loopback HTTP server that receives one OAuth redirect.
type Listener struct {
	ln      net.Listener
	srv     *http.Server
	results chan result
	log     logging.Logger
}

// Listen binds addr (e.g. "127.0.0.1:8765"; port 0 picks a free one) and
// starts serving CallbackPath.
func Listen(addr string, log logging.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("oauth listener: %w", err)
	}

	l := &Listener{
		ln:      ln,
		results: make(chan result, 1),
		log:     log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.NoCache)
	r.Get(CallbackPath, l.handleCallback)

	l.srv = &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.Error(context.Background(), "oauth listener stopped", "error", err)
		}
	}()
	return l, nil
}

// CallbackURL is where the backend should redirect after login.
func (l *Listener) CallbackURL() string {
	return "http://" + l.ln.Addr().String() + CallbackPath
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	cb, err := ParseCallback(r.URL.Query(), r.Cookies())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		l.log.Warn(r.Context(), "oauth callback rejected", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintln(w, "Login failed. You can close this window and return to the terminal.")
	} else {
		_, _ = fmt.Fprintln(w, "Login complete. You can close this window and return to the terminal.")
	}

	// only the first redirect counts
	select {
	case l.results <- result{cb: cb, err: err}:
	default:
	}
}

// Wait blocks until a redirect arrives or ctx is done.
func (l *Listener) Wait(ctx context.Context) (*Callback, error) {
	select {
	case res := <-l.results:
		return res.cb, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.srv.Shutdown(ctx)
}
