package service

import (
	"sync"
	"time"
)

// State — готовность сервиса для /readyz и /healthz.
type State struct {
	mu sync.RWMutex

	startedAt     time.Time
	settingsReady bool
	wsConnected   bool
	lastTick      time.Time
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetSettingsReady(v bool) {
	s.mu.Lock()
	s.settingsReady = v
	s.mu.Unlock()
}

func (s *State) SetWSConnected(v bool) {
	s.mu.Lock()
	s.wsConnected = v
	s.mu.Unlock()
}

func (s *State) MarkTick() {
	s.mu.Lock()
	s.lastTick = time.Now()
	s.mu.Unlock()
}

// Ready — настройки заведены и стример хотя бы раз подключался.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settingsReady && s.wsConnected
}

func (s *State) WSConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wsConnected
}

func (s *State) LastTick() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}

func (s *State) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startedAt)
}
