package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/scriptcast/scriptcast/internal/cfg"
	"github.com/scriptcast/scriptcast/pkg/player"
)

// upgrade an http request to websocket
var httpUpgrader = websocket.Upgrader{
	ReadBufferSize:  cfg.ServerReadBufferSize,
	WriteBufferSize: cfg.ServerWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var decoder = schema.NewDecoder()

/*** Health check API ***/
func handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "I'm fine: %s\n", time.Now().String())
}

/*** List casts API ***/
// Queries:
// - n - int    : Number of casts to get. Set to -1 to get all
// - skip - int : Number of casts to skip. Used for paging
type ListCastQuery struct {
	N    int `schema:"n"`
	Skip int `schema:"skip"`
}

func (s *Server) handleListCasts(w http.ResponseWriter, r *http.Request) {
	var q ListCastQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		log.Warnf("Failed to decode query: %s", err)
		http.Error(w, fmt.Sprintf("%s", err), 400)
		return
	}
	n := q.N
	switch {
	case n == 0:
		n = cfg.ServerListDefault
	case n < 0:
		n = 0 // all
	}

	casts, err := s.db.GetCasts(q.Skip, n)
	if err != nil {
		log.Errorf("Failed to list casts: %s", err)
		http.Error(w, "Failed to list casts", 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(casts)
}

/*** Show cast info API ***/
func (s *Server) handleCastInfo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	info, err := s.db.GetCast(name)
	if err != nil {
		http.Error(w, "Cast not found", 404)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

/*** Websocket cast streaming ***/
// Streams the cast's events one websocket text message per event, pacing
// writes with the recorded timing. Gaps are capped so replays never hang on
// a long recorded pause.
func (s *Server) handleCastStream(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	log.Infof("Client %s streaming cast: %s", r.RemoteAddr, name)

	if _, err := s.db.GetCast(name); err != nil {
		http.Error(w, "Cast not found", 404)
		return
	}
	f, err := os.Open(s.castPath(name))
	if err != nil {
		http.Error(w, "Cast not found", 404)
		return
	}
	defer f.Close()

	cast, err := player.Load(f)
	if err != nil {
		log.Errorf("Failed to load cast %s: %s", name, err)
		http.Error(w, "Failed to load cast", 500)
		return
	}

	conn, err := httpUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to websocket: %s", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(cast.Header); err != nil {
		return
	}
	maxIdle := time.Duration(cfg.ServerStreamMaxIdle) * time.Second
	var last time.Duration
	for _, ev := range cast.Events {
		gap := ev.Time - last
		last = ev.Time
		if gap > maxIdle {
			gap = maxIdle
		}
		if gap > 0 {
			time.Sleep(gap)
		}
		if err := conn.WriteJSON(ev); err != nil {
			log.Debugf("Client %s left cast %s: %s", r.RemoteAddr, name, err)
			return
		}
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
