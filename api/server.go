package api

import (
	"context"
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/matt-g-everett/ledgif/anim"
	"github.com/matt-g-everett/ledgif/stream"
)

// A FrameSource reports the frame that is currently being played.
type FrameSource interface {
	Snapshot() stream.Snapshot
}

// Status is the JSON body of /status.
type Status struct {
	Index   int   `json:"index"`
	Count   int   `json:"count"`
	Width   int   `json:"width"`
	Height  int   `json:"height"`
	DelayMs int64 `json:"delayMs"`
	TotalMs int64 `json:"totalMs"`
}

// Api serves previews of the animation over HTTP.
type Api struct {
	source    FrameSource
	seq       *anim.Sequence
	staticDir string
}

func NewApi(source FrameSource, seq *anim.Sequence, staticDir string) *Api {
	a := new(Api)
	a.source = source
	a.seq = seq
	a.staticDir = staticDir
	return a
}

// Handler returns the router with request logging.
func (a *Api) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/frame.png", a.handleCurrentFrame).Methods(http.MethodGet)
	r.HandleFunc("/frame/{index:[0-9]+}.png", a.handleFrame).Methods(http.MethodGet)
	r.HandleFunc("/status", a.handleStatus).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(a.staticDir)))

	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))
}

func (a *Api) handleCurrentFrame(w http.ResponseWriter, r *http.Request) {
	writePng(w, a.source.Snapshot().Frame)
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || i >= a.seq.Len() {
		http.NotFound(w, r)
		return
	}
	writePng(w, a.seq.Frame(i))
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := a.source.Snapshot()
	status := Status{
		Index:   snap.Index,
		Count:   snap.Count,
		Width:   a.seq.Width(),
		Height:  a.seq.Height(),
		DelayMs: snap.Frame.Duration().Milliseconds(),
		TotalMs: a.seq.TotalDuration().Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Printf("Writing status: %v", err)
	}
}

func writePng(w http.ResponseWriter, f *anim.Frame) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, f); err != nil {
		log.Printf("Encoding frame: %v", err)
	}
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening on %s...", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
