package client

import "sync"

// Session holds the backend credential tokens for this process. It is the
// only client-side state that survives between requests; everything else is
// rebuilt from the server.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onExpired    func()
}

func NewSession() *Session {
	return &Session{}
}

// OnExpired registers a callback invoked after a failed token refresh clears
// the session.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = fn
}

func (s *Session) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	if refresh != "" {
		s.refreshToken = refresh
	}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
}

func (s *Session) expire() {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	fn := s.onExpired
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
