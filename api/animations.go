package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/Ross-123/US-Economic-Dashboard/internal/animation"
)

const (
	// An unclaimed session is dropped after this long.
	sessionClaimTimeout = time.Minute

	// Finished sessions stay queryable for this long.
	sessionRetention = time.Minute
)

var (
	errSessionNotFound = errors.New("animation session not found")
	errSessionClaimed  = errors.New("animation session already streaming")
)

// CreateAnimationRequest is the body for POST /api/v1/animations.
// An empty body uses the configured default speed.
type CreateAnimationRequest struct {
	Speed int `json:"speed" validate:"required,min=1,max=10"`
}

// AnimationInfo describes an animation session.
type AnimationInfo struct {
	ID        string          `json:"id"`
	Speed     int             `json:"speed"`
	Frames    int             `json:"frames"`
	DelayMS   int64           `json:"delay_ms"`
	State     animation.State `json:"state"`
	Progress  int             `json:"progress"`
	StreamURL string          `json:"stream_url"`
}

// session is one animation playback, streamed to the first WebSocket that
// claims it.
type session struct {
	id      string
	speed   int
	player  *animation.Player
	frames  int
	delay   time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	expires *time.Timer

	mu       sync.Mutex
	claimed  bool
	state    animation.State
	progress int
}

func (sess *session) info() AnimationInfo {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return AnimationInfo{
		ID:        sess.id,
		Speed:     sess.speed,
		Frames:    sess.frames,
		DelayMS:   sess.delay.Milliseconds(),
		State:     sess.state,
		Progress:  sess.progress,
		StreamURL: "/api/v1/ws?session=" + sess.id,
	}
}

func (sess *session) setState(st animation.State) {
	sess.mu.Lock()
	sess.state = st
	sess.mu.Unlock()
}

func (sess *session) setProgress(p int) {
	sess.mu.Lock()
	sess.progress = p
	sess.mu.Unlock()
}

// sessionStore tracks animation sessions by id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) add(sess *session) {
	sess.expires = time.AfterFunc(sessionClaimTimeout, func() {
		sess.mu.Lock()
		claimed := sess.claimed
		sess.mu.Unlock()
		if !claimed {
			sess.cancel()
			sess.setState(animation.Cancelled)
			st.remove(sess.id)
		}
	})

	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// claim marks the session as streaming. Each session streams once.
func (st *sessionStore) claim(id string) (*session, error) {
	sess, ok := st.get(id)
	if !ok {
		return nil, errSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.claimed || sess.state != animation.Idle {
		return nil, errSessionClaimed
	}
	sess.claimed = true
	sess.expires.Stop()
	return sess, nil
}

// finish releases the session's context and schedules its removal.
func (st *sessionStore) finish(sess *session) {
	sess.cancel()
	time.AfterFunc(sessionRetention, func() { st.remove(sess.id) })
}

func (st *sessionStore) remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// len returns the number of sessions currently playing.
func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, sess := range st.sessions {
		sess.mu.Lock()
		if sess.state == animation.Running {
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

func (st *sessionStore) cancelAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, sess := range st.sessions {
		sess.cancel()
	}
}

// ============================================================
// Handlers
// ============================================================

// handleCreateAnimation prepares a playback session over the cached table.
// Frames start flowing once a WebSocket connects with ?session=<id>.
func (s *Server) handleCreateAnimation(w http.ResponseWriter, r *http.Request) {
	req := CreateAnimationRequest{Speed: s.cfg.Animation.DefaultSpeed}
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	player, err := animation.NewPlayer(tbl, req.Speed, s.anim)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:     uuid.NewString(),
		speed:  req.Speed,
		player: player,
		frames: player.Frames(),
		delay:  player.Delay(),
		ctx:    ctx,
		cancel: cancel,
		state:  animation.Idle,
	}
	s.sessions.add(sess)

	s.logger.InfoContext(r.Context(), "animation session created",
		"session", sess.id,
		"speed", sess.speed,
		"frames", sess.frames,
	)
	writeJSON(w, r, http.StatusCreated, APIResponse{Success: true, Data: sess.info()})
}

func (s *Server) handleGetAnimation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, errSessionNotFound.Error())
		return
	}
	writeOK(w, r, sess.info())
}

// handleCancelAnimation stops a session. Cancelling a finished session is a no-op.
func (s *Server) handleCancelAnimation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, errSessionNotFound.Error())
		return
	}

	sess.mu.Lock()
	claimed := sess.claimed
	if !claimed {
		// never streamed; nothing else will move it out of Idle
		sess.claimed = true
		sess.state = animation.Cancelled
	}
	sess.mu.Unlock()

	if !claimed {
		sess.expires.Stop()
		s.sessions.finish(sess)
	} else {
		sess.cancel()
	}
	writeOK(w, r, sess.info())
}

// playSession streams the session's frames to client, then a completion or
// cancellation notice.
func (s *Server) playSession(sess *session, client *WSClient) {
	defer s.sessions.finish(sess)

	sess.setState(animation.Running)
	err := sess.player.Run(sess.ctx, func(f animation.Frame) error {
		sess.setProgress(f.Progress)
		if !client.Send(WSMessage{Type: "frame", Data: f}) {
			return errClientGone
		}
		return nil
	})

	if err != nil {
		sess.setState(animation.Cancelled)
		s.logger.Info("animation session cancelled", "session", sess.id, "reason", err)
		client.Send(WSMessage{Type: "cancelled", Data: map[string]string{"id": sess.id}})
		return
	}
	sess.setState(animation.Completed)
	client.Send(WSMessage{Type: "complete", Data: map[string]string{
		"id":      sess.id,
		"message": animation.CompletedMessage,
	}})
}
