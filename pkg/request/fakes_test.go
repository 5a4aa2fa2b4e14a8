package request

import (
	"errors"
	"sync"
	"sync/atomic"
)

type fakeSession struct {
	mu            sync.Mutex
	token         string
	invalidations int32
}

func (s *fakeSession) Read() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	atomic.AddInt32(&s.invalidations, 1)
}

type fakeNavigator struct {
	mu      sync.Mutex
	paths   []string
	reloads int
}

func (n *fakeNavigator) NavigateTo(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return nil
}

func (n *fakeNavigator) Reload() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reloads++
	return nil
}

type fakeIndicator struct {
	starts      int32
	dismissals  int32
	failDismiss bool
}

func (f *fakeIndicator) Start() Handle {
	atomic.AddInt32(&f.starts, 1)
	return fakeHandle{f}
}

type fakeHandle struct{ f *fakeIndicator }

func (h fakeHandle) Dismiss() error {
	atomic.AddInt32(&h.f.dismissals, 1)
	if h.f.failDismiss {
		return errors.New("indicator already gone")
	}
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
