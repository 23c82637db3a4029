package signaling

import (
	"context"
	"log/slog"
	"time"

	"github.com/minhtran24/meethub/internal/service"
	"github.com/minhtran24/meethub/lib/logger/sl"
)

// Presence implements join, leave and disconnect semantics against the
// registry and broadcasts the resulting membership changes.
type Presence struct {
	registry *Registry
	meetings service.MeetingInteractor
	dir      Directory
	log      *slog.Logger
}

func NewPresence(registry *Registry, meetings service.MeetingInteractor, dir Directory, log *slog.Logger) *Presence {
	if log == nil {
		log = slog.Default()
	}
	return &Presence{registry: registry, meetings: meetings, dir: dir, log: log}
}

// Join resolves the meeting, persists the participant, flips a scheduled
// meeting to ongoing, then registers the session and announces it. The
// external lookups and writes all happen before the registry mutation so
// a slow store never stalls other rooms' presence updates. The
// current-participants list the caller receives is computed after its own
// registration, so the caller always sees itself in it.
func (p *Presence) Join(ctx context.Context, sess Session, roomID, meetingID string) error {
	const op = "signaling.presence.join"
	user := sess.User()
	log := p.log.With(
		"op", op,
		"user_id", user.ID.String(),
		"conn_id", sess.ID(),
	)

	meeting, err := p.meetings.Resolve(ctx, roomID, meetingID)
	if err != nil {
		log.Info("meeting resolve failed", sl.Err(err))
		return err
	}

	if err := p.meetings.EnsureParticipant(ctx, meeting.ID, user.ID); err != nil {
		log.Error("failed to persist participant", sl.Err(err))
		return err
	}
	if err := p.meetings.MarkOngoing(ctx, meeting.ID); err != nil {
		log.Error("failed to update meeting status", sl.Err(err))
		return err
	}

	p.registry.Upsert(meeting.RoomID, Participant{
		UserID:       user.ID,
		UserName:     user.FullName,
		ConnectionID: sess.ID(),
		JoinedAt:     time.Now().UTC(),
	})

	sess.Enqueue(ServerEvent{Type: EventJoinedMeeting, Data: JoinedMeetingData{
		MeetingID:   meeting.ID.String(),
		RoomID:      meeting.RoomID,
		Title:       meeting.Title,
		Description: meeting.Description,
	}})

	participants := p.registry.Participants(meeting.RoomID)

	broadcastToRoom(p.registry, p.dir, meeting.RoomID, sess.ID(), ServerEvent{
		Type: EventUserJoined,
		Data: MembershipData{
			User:         UserRef{ID: user.ID, Name: user.FullName},
			Participants: participants,
		},
	})

	sess.Enqueue(ServerEvent{Type: EventCurrentParticipants, Data: ParticipantsData{Participants: participants}})

	log.Info("joined room", "room_id", meeting.RoomID)
	return nil
}

// Leave removes the session from one room and notifies the remaining
// members. Leaving a room the session is not in is a no-op, so a second
// leave or a disconnect after an explicit leave never re-broadcasts.
func (p *Presence) Leave(sess Session, roomID string) {
	if roomID == "" {
		return
	}

	removed, ok := p.registry.Remove(roomID, sess.ID())
	if !ok {
		return
	}

	p.announceLeft(roomID, removed)
	p.log.Info("left room",
		"user_id", removed.UserID.String(),
		"conn_id", sess.ID(),
		"room_id", roomID,
	)
}

// Disconnect sweeps the connection out of every room it appears in. The
// connection does not report which rooms it was in, so the registry is
// scanned by connection id and each room is cleaned up independently.
func (p *Presence) Disconnect(sess Session) {
	removals := p.registry.RemoveConnection(sess.ID())
	for _, rm := range removals {
		p.announceLeft(rm.RoomID, rm.Participant)
	}

	if len(removals) > 0 {
		p.log.Info("connection swept from rooms",
			"conn_id", sess.ID(),
			"rooms", len(removals),
		)
	}
}

func (p *Presence) announceLeft(roomID string, removed Participant) {
	participants := p.registry.Participants(roomID)
	if len(participants) == 0 {
		return
	}

	broadcastToRoom(p.registry, p.dir, roomID, removed.ConnectionID, ServerEvent{
		Type: EventUserLeft,
		Data: MembershipData{
			User:         UserRef{ID: removed.UserID, Name: removed.UserName},
			Participants: participants,
		},
	})
}
