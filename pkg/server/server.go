/*
Package server exposes a directory of recorded casts over HTTP: a JSON API
for browsing, and a websocket endpoint that streams a cast's events with the
recorded timing, so web terminals can render a live-looking replay.
*/
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Server serves casts found under a root directory.
type Server struct {
	lock   sync.RWMutex
	addr   string
	dir    string
	db     *DB
	server *http.Server
}

// New creates a server for the casts under dir. The index database lives
// alongside the casts.
func New(addr, dir string) (*Server, error) {
	db, err := SetupDB(filepath.Join(dir, "index"))
	if err != nil {
		return nil, err
	}
	s := &Server{addr: addr, dir: dir, db: db}
	if err := s.Scan(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Scan indexes cast files that are not yet in the database. Safe to call
// again to pick up new recordings.
func (s *Server) Scan() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	added := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".cast") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".cast")
		if known, err := s.db.HasCast(name); err != nil {
			return err
		} else if known {
			continue
		}
		info, err := describeCast(s.castPath(name), name)
		if err != nil {
			log.Warnf("Skipping %s: %s", entry.Name(), err)
			continue
		}
		if _, err := s.db.AddCast(info); err != nil {
			return err
		}
		added++
	}
	if added > 0 {
		log.Infof("Indexed %d new casts", added)
	}
	return nil
}

func (s *Server) castPath(name string) string {
	return filepath.Join(s.dir, name+".cast")
}

func (s *Server) router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", handleHealth)
	router.HandleFunc("/api/casts", s.handleListCasts).Methods("GET")
	router.HandleFunc("/api/casts/{name}", s.handleCastInfo).Methods("GET")
	router.HandleFunc("/ws/casts/{name}", s.handleCastStream)
	return cors.Default().Handler(router)
}

// Start serves until Stop is called. Blocking.
func (s *Server) Start() error {
	s.server = &http.Server{Addr: s.addr, Handler: s.router()}
	log.Infof("Serving casts from %s at %s", s.dir, s.addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop() {
	if s.server != nil {
		s.server.Close()
	}
	s.db.Close()
}
