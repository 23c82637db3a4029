package signaling

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

// Relay routes WebRTC negotiation messages between participants. It is a
// pure router: payloads pass through untouched and no arbitration happens
// here. The deterministic initiator rule (lexicographically smaller user
// id offers first) lives in the client, which only works because the relay
// delivers to exactly one recipient with the sender identity attached.
type Relay struct {
	registry *Registry
	dir      Directory
	log      *slog.Logger
}

func NewRelay(registry *Registry, dir Directory, log *slog.Logger) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{registry: registry, dir: dir, log: log}
}

func (r *Relay) Offer(sess Session, msg *domain.SignalMessage) {
	user := sess.User()
	r.forward(sess, msg.TargetUserID, ServerEvent{Type: EventOffer, Data: OfferData{
		FromUserID:   user.ID,
		FromUserName: user.FullName,
		Offer:        msg.Offer,
	}})
}

func (r *Relay) Answer(sess Session, msg *domain.SignalMessage) {
	user := sess.User()
	r.forward(sess, msg.TargetUserID, ServerEvent{Type: EventAnswer, Data: AnswerData{
		FromUserID:   user.ID,
		FromUserName: user.FullName,
		Answer:       msg.Answer,
	}})
}

func (r *Relay) Candidate(sess Session, msg *domain.SignalMessage) {
	r.forward(sess, msg.TargetUserID, ServerEvent{Type: EventICECandidate, Data: CandidateData{
		FromUserID: sess.User().ID,
		Candidate:  msg.Candidate,
	}})
}

// MediaToggle has no single target: every other room member is told.
func (r *Relay) MediaToggle(sess Session, roomID, mediaType string, enabled bool) {
	if roomID == "" {
		return
	}
	user := sess.User()
	broadcastToRoom(r.registry, r.dir, roomID, sess.ID(), ServerEvent{Type: EventMediaToggle, Data: MediaToggleData{
		UserID:    user.ID,
		UserName:  user.FullName,
		MediaType: mediaType,
		Enabled:   enabled,
	}})
}

func (r *Relay) EndCall(sess Session, roomID string) {
	if roomID == "" {
		return
	}
	user := sess.User()
	broadcastToRoom(r.registry, r.dir, roomID, sess.ID(), ServerEvent{Type: EventEndCall, Data: EndCallData{
		UserID:   user.ID,
		UserName: user.FullName,
	}})
}

// ReconnectRequest hands the caller the current membership so its client
// can rebuild peer connections after a drop.
func (r *Relay) ReconnectRequest(sess Session, roomID string) {
	if roomID == "" {
		return
	}
	sess.Enqueue(ServerEvent{Type: EventParticipantsList, Data: ParticipantsData{
		Participants: r.registry.Participants(roomID),
	}})
}

// forward delivers a targeted envelope to the target user's active
// connection only. An unresolvable target is reported to the sender and
// never broadcast.
func (r *Relay) forward(sess Session, targetUserID string, evt ServerEvent) {
	if targetUserID == "" {
		sess.Enqueue(errorEvent(codeMalformedEvent, "targetUserId is required"))
		return
	}

	targetID, err := uuid.Parse(targetUserID)
	if err != nil {
		sess.Enqueue(errorEvent(codeMalformedEvent, "invalid target user id"))
		return
	}

	connID, ok := r.registry.ConnFor(targetID)
	if !ok {
		sess.Enqueue(errorEvent(codeTargetUnavailable, "target user is not connected"))
		return
	}

	target, ok := r.dir.Find(connID)
	if !ok {
		sess.Enqueue(errorEvent(codeTargetUnavailable, "target user is not connected"))
		return
	}

	target.Enqueue(evt)
}
