package models

import "sync"

// ToolAction represents a completed tool action for display
type ToolAction struct {
	Name    string
	Summary string
}

// State tracks the active chat model for the process. It is initialized from
// configuration and from then on written only by the set_model tool handler,
// which runs on the orchestration goroutine; every outgoing request reads it.
type State struct {
	mu             sync.RWMutex
	current        string
	defaultModel   string
	unloadPrevious bool
}

func NewState(defaultModel string, unloadPrevious bool) *State {
	return &State{
		current:        defaultModel,
		defaultModel:   defaultModel,
		unloadPrevious: unloadPrevious,
	}
}

// Current returns the model name to use for the next request.
func (s *State) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return s.defaultModel
	}
	return s.current
}

// Set switches the active model and returns the previous one.
func (s *State) Set(model string) (old string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old = s.current
	s.current = model
	return old
}

// Reset restores the configured default model.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.defaultModel
}

// UnloadPrevious reports whether a replaced model should be unloaded on switch.
func (s *State) UnloadPrevious() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unloadPrevious
}

// SetUnloadPrevious toggles the unload-on-switch behaviour.
func (s *State) SetUnloadPrevious(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unloadPrevious = v
}
