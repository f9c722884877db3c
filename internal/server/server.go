// Package server exposes the trader status over http.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	cointime "github.com/drakos74/ar-trader/internal/time"
	"github.com/drakos74/ar-trader/internal/trader"
)

type Action string

type Method string

const (
	Data    Action = "data"
	Api     Action = "api"
	Metrics Action = "metrics"

	GET Method = "GET"
)

type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action Action
	Path   string
	Method Method
	Exec   Handler
}

func (r Route) pattern() string {
	if r.Path != "" {
		return fmt.Sprintf("/%s/%s", r.Action, r.Path)
	}
	return fmt.Sprintf("/%s", r.Action)
}

type Server struct {
	name string
	port int
	mux  *http.ServeMux
}

func NewServer(name string, port int) *Server {
	return &Server{
		name: name,
		port: port,
		mux:  http.NewServeMux(),
	}
}

// Add adds the given routes to the server
func (s *Server) Add(routes ...Route) *Server {
	for _, route := range routes {
		s.mux.HandleFunc(route.pattern(), s.handle(route.Method, route.Exec))
	}
	return s
}

// WithMetrics exposes the prometheus metrics.
func (s *Server) WithMetrics() *Server {
	s.mux.Handle(fmt.Sprintf("/%s", Metrics), promhttp.Handler())
	return s
}

// Handler returns the http handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handle(method Method, handler Handler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("served request")
		}()
		if Method(r.Method) != method {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		b, code, err := handler(r)
		if err != nil {
			s.error(w, err)
		} else if code != http.StatusOK {
			s.code(w, b, code)
		} else {
			s.respond(w, b)
		}
	}
}

// Run starts the server and shuts it down when the context is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Str("server", s.name).Msg("could not stop server")
		}
	}()

	log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("error for http request")
	s.code(w, []byte(err.Error()), http.StatusInternalServerError)
}

// Live reports that the server is up.
func Live() Route {
	return Route{
		Action: Data,
		Path:   "live",
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte("ok"), http.StatusOK, nil
		},
	}
}

// Status is the response of the status route.
type Status struct {
	Uptime   cointime.Duration `json:"uptime"`
	Machines []trader.Snapshot `json:"machines"`
}

// StatusRoute reports the snapshot of every machine.
// A single coin can be selected with the 'coin' query parameter.
func StatusRoute(machines ...*trader.Machine) Route {
	start := time.Now()
	return Route{
		Action: Api,
		Path:   "status",
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			coin := r.URL.Query().Get("coin")
			status := Status{
				Uptime:   cointime.Duration{Duration: time.Since(start).Truncate(time.Second)},
				Machines: make([]trader.Snapshot, 0, len(machines)),
			}
			for _, m := range machines {
				if coin != "" && string(m.Coin()) != coin {
					continue
				}
				status.Machines = append(status.Machines, m.Snapshot())
			}
			if coin != "" && len(status.Machines) == 0 {
				return []byte(fmt.Sprintf("unknown coin: %s", coin)), http.StatusNotFound, nil
			}
			b, err := json.Marshal(status)
			if err != nil {
				return nil, http.StatusInternalServerError, fmt.Errorf("could not encode status: %w", err)
			}
			return b, http.StatusOK, nil
		},
	}
}
