package signaling

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry is the in-memory presence directory: which connections are in
// which room, and which connection currently speaks for each user. All
// mutation goes through its methods under one mutex; the maps are never
// handed out.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Participant // room id → connection id → record
	conns  map[uuid.UUID]string              // user id → active connection id
	byConn map[string]map[string]struct{}    // connection id → room ids
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[string]Participant),
		conns:  make(map[uuid.UUID]string),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Upsert inserts or replaces the participant record for its connection id
// and makes that connection the user's active one. Shadow records left in
// the room by the same user's earlier connections (tab refresh, reconnect
// before the old socket times out) are dropped here, so the room map stays
// dedup-correct by construction. Idempotent on repeated identical calls.
func (r *Registry) Upsert(roomID string, p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]Participant)
		r.rooms[roomID] = room
	}

	for connID, existing := range room {
		if existing.UserID == p.UserID && connID != p.ConnectionID {
			delete(room, connID)
			r.forgetRoom(connID, roomID)
		}
	}

	room[p.ConnectionID] = p
	r.conns[p.UserID] = p.ConnectionID

	memberships, ok := r.byConn[p.ConnectionID]
	if !ok {
		memberships = make(map[string]struct{})
		r.byConn[p.ConnectionID] = memberships
	}
	memberships[roomID] = struct{}{}
}

// Remove deletes the record for connID in roomID. Reports false when the
// record was already absent, which makes repeated leaves no-ops. Empty
// rooms are erased, and the user→connection mapping is cleared only when
// it still points at this connection and the connection holds no other
// room memberships.
func (r *Registry) Remove(roomID, connID string) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return Participant{}, false
	}

	p, ok := room[connID]
	if !ok {
		return Participant{}, false
	}

	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}

	r.forgetRoom(connID, roomID)
	r.clearIndexIfStale(p.UserID, connID)

	return p, true
}

// RoomRemoval names one room a disconnecting connection was removed from.
type RoomRemoval struct {
	RoomID      string
	Participant Participant
}

// RemoveConnection sweeps the connection out of every room it appears in,
// for abrupt disconnects where the connection does not report which rooms
// it was in.
func (r *Registry) RemoveConnection(connID string) []RoomRemoval {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberships, ok := r.byConn[connID]
	if !ok {
		return nil
	}

	removals := make([]RoomRemoval, 0, len(memberships))
	for roomID := range memberships {
		room, ok := r.rooms[roomID]
		if !ok {
			continue
		}
		p, ok := room[connID]
		if !ok {
			continue
		}

		delete(room, connID)
		if len(room) == 0 {
			delete(r.rooms, roomID)
		}
		removals = append(removals, RoomRemoval{RoomID: roomID, Participant: p})
	}

	delete(r.byConn, connID)
	for _, rm := range removals {
		r.clearIndexIfStale(rm.Participant.UserID, connID)
	}

	sort.Slice(removals, func(i, j int) bool { return removals[i].RoomID < removals[j].RoomID })
	return removals
}

// Participants returns the room's membership deduplicated by user id.
// When the same user transiently holds more than one record, the most
// recent join wins. Ordered by join time for stable client rendering.
func (r *Registry) Participants(roomID string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	latest := make(map[uuid.UUID]Participant, len(room))
	for _, p := range room {
		if best, ok := latest[p.UserID]; !ok || p.JoinedAt.After(best.JoinedAt) {
			latest[p.UserID] = p
		}
	}

	result := make([]Participant, 0, len(latest))
	for _, p := range latest {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].JoinedAt.Equal(result[j].JoinedAt) {
			return result[i].ConnectionID < result[j].ConnectionID
		}
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})

	return result
}

// ConnFor resolves the user's active connection id, used to target
// private chat and WebRTC signaling.
func (r *Registry) ConnFor(userID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.conns[userID]
	return connID, ok
}

// RoomCount reports how many rooms currently hold participants.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// clearIndexIfStale removes the user→connection mapping when it still
// points at connID and that connection no longer appears in any room.
// A mapping already overwritten by a newer connection is left alone.
func (r *Registry) clearIndexIfStale(userID uuid.UUID, connID string) {
	if r.conns[userID] != connID {
		return
	}
	if len(r.byConn[connID]) > 0 {
		return
	}
	delete(r.conns, userID)
}

func (r *Registry) forgetRoom(connID, roomID string) {
	memberships, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(memberships, roomID)
	if len(memberships) == 0 {
		delete(r.byConn, connID)
	}
}
