// Package player drives the lifecycle of a media element showing an
// imported video: load, play and release of the decoder once playback ends.
package player

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/SmooAI/video"
)

var wsSuffix = regexp.MustCompile(`~.*$`)

// BlobPrefix turns a websocket multiserver address (ws://host:port~shs:key)
// into the HTTP prefix blobs are served from.
func BlobPrefix(wsAddress string) string {
	addr := strings.Replace(wsAddress, "ws://", "http://", 1)
	return wsSuffix.ReplaceAllString(addr, "/blobs/get/")
}

// SourceURL returns the URL a media element loads rec from, or "" when the
// record has no blob yet.
func SourceURL(prefix string, rec *video.Record) string {
	if prefix == "" || rec == nil || rec.Blob == "" {
		return ""
	}
	src := prefix + url.QueryEscape(rec.Blob)
	if rec.File.Type != "" {
		src += "?contentType=" + url.QueryEscape(rec.File.Type)
	}
	return src
}

// Element is the media element a Session controls.
type Element interface {
	SetSource(src string)
	Load()
	Play() error
}

// State is the lifecycle state of a Session.
type State int

const (
	// Idle means the element has not been pointed at a source yet.
	Idle State = iota
	// Loaded means the source is set and its header is being fetched.
	Loaded
	// Playing means playback was started.
	Playing
	// Released means the source was cleared after playback ended or a stop.
	Released
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Session binds an Element to a source URL.
type Session struct {
	mu    sync.Mutex
	el    Element
	src   string
	state State

	// OnEnded is called once each time playback ends and the element is released.
	OnEnded func()
	// OnMetadata receives the decoded frame size and duration.
	OnMetadata func(width, height int, duration float64)
}

// NewSession returns an idle session for el.
func NewSession(el Element, src string) *Session {
	return &Session{el: el, src: src}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetSource changes the URL used by the next Load.
func (s *Session) SetSource(src string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
}

// Load points the element at the source and starts fetching its header.
func (s *Session) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

func (s *Session) load() {
	s.el.SetSource(s.src)
	s.el.Load()
	s.state = Loaded
}

// Replay reloads the source and starts playback from the beginning.
func (s *Session) Replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if err := s.el.Play(); err != nil {
		return err
	}
	s.state = Playing
	return nil
}

// MetadataLoaded reports the element's decoded header.
func (s *Session) MetadataLoaded(width, height int, duration float64) {
	if s.OnMetadata != nil {
		s.OnMetadata(width, height, duration)
	}
}

// Ended releases the element's network connection and decoder by clearing
// its source. Repeated calls after the release are ignored.
func (s *Session) Ended() {
	s.mu.Lock()
	if !s.release() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if s.OnEnded != nil {
		s.OnEnded()
	}
}

// Stop releases the element without notifying OnEnded.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

func (s *Session) release() bool {
	if s.state == Idle || s.state == Released {
		return false
	}
	s.el.SetSource("")
	s.el.Load()
	s.state = Released
	return true
}

// Registry tracks live sessions so they can all be stopped at once, for
// example before a new video starts loading.
type Registry struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*Session]struct{})}
}

// Register adds s and returns a function removing it again.
func (r *Registry) Register(s *Session) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.sessions, s)
	}
}

// StopAll stops every registered session.
func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()
	for _, s := range sessions {
		s.Stop()
	}
}
