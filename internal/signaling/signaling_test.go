package signaling

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/minhtran24/meethub/internal/service"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id   string
	user *domain.User

	mu     sync.Mutex
	events []ServerEvent
}

func newFakeSession(name string) *fakeSession {
	return &fakeSession{
		id: uuid.New().String(),
		user: &domain.User{
			ID:       uuid.New(),
			FullName: name,
			Approved: true,
		},
	}
}

func (s *fakeSession) ID() string         { return s.id }
func (s *fakeSession) User() *domain.User { return s.user }

func (s *fakeSession) Enqueue(evt ServerEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return true
}

func (s *fakeSession) received(eventType string) []ServerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ServerEvent
	for _, evt := range s.events {
		if evt.Type == eventType {
			result = append(result, evt)
		}
	}
	return result
}

func (s *fakeSession) all() []ServerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ServerEvent(nil), s.events...)
}

type fakeDirectory struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{sessions: make(map[string]*fakeSession)}
}

func (d *fakeDirectory) add(sessions ...*fakeSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range sessions {
		d.sessions[s.id] = s
	}
}

func (d *fakeDirectory) remove(s *fakeSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, s.id)
}

func (d *fakeDirectory) Find(connID string) (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[connID]
	return s, ok
}

type harness struct {
	registry *Registry
	dir      *fakeDirectory
	presence *Presence
	relay    *Relay
	chat     *Chat
	meetings *service.MeetingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewRegistry()
	dir := newFakeDirectory()
	meetings := service.NewMeetingService(repository.NewInMemoryMeetingRepository(), log)

	return &harness{
		registry: registry,
		dir:      dir,
		presence: NewPresence(registry, meetings, dir, log),
		relay:    NewRelay(registry, dir, log),
		chat:     NewChat(registry, dir, log),
		meetings: meetings,
	}
}

func (h *harness) newMeeting(t *testing.T, title string) *domain.Meeting {
	t.Helper()

	meeting, err := h.meetings.CreateMeeting(context.Background(), title, "", uuid.New(), time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	return meeting
}

func (h *harness) join(t *testing.T, sess *fakeSession, roomID string) {
	t.Helper()

	h.dir.add(sess)
	require.NoError(t, h.presence.Join(context.Background(), sess, roomID, ""))
}
