package signaling

import (
	"testing"

	"github.com/minhtran24/meethub/internal/domain"
	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferReachesTargetOnly(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	s2 := newFakeSession("Bob")
	s3 := newFakeSession("Carol")
	h.join(t, s1, meeting.RoomID)
	h.join(t, s2, meeting.RoomID)
	h.join(t, s3, meeting.RoomID)

	offer := &webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"}
	h.relay.Offer(s1, &domain.SignalMessage{
		Type:         EventOffer,
		RoomID:       meeting.RoomID,
		TargetUserID: s2.user.ID.String(),
		Offer:        offer,
	})

	got := s2.received(EventOffer)
	require.Len(t, got, 1)
	data := got[0].Data.(OfferData)
	assert.Equal(t, s1.user.ID, data.FromUserID)
	assert.Equal(t, "Alice", data.FromUserName)
	assert.Equal(t, offer, data.Offer)

	assert.Empty(t, s1.received(EventOffer))
	assert.Empty(t, s3.received(EventOffer))
}

func TestOfferToDisconnectedTarget(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	h.join(t, s1, meeting.RoomID)

	offline := newFakeSession("Ghost")
	h.relay.Offer(s1, &domain.SignalMessage{
		Type:         EventOffer,
		RoomID:       meeting.RoomID,
		TargetUserID: offline.user.ID.String(),
		Offer:        &webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"},
	})

	errs := s1.received(EventError)
	require.Len(t, errs, 1)
	assert.Equal(t, codeTargetUnavailable, errs[0].Data.(ErrorData).Code)
	assert.Empty(t, offline.all())
}

func TestOfferWithoutTargetIsReported(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	h.join(t, s1, meeting.RoomID)

	h.relay.Offer(s1, &domain.SignalMessage{Type: EventOffer, RoomID: meeting.RoomID})

	errs := s1.received(EventError)
	require.Len(t, errs, 1)
	assert.Equal(t, codeMalformedEvent, errs[0].Data.(ErrorData).Code)
}

func TestAnswerAndCandidateAreTargeted(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	s2 := newFakeSession("Bob")
	h.join(t, s1, meeting.RoomID)
	h.join(t, s2, meeting.RoomID)

	answer := &webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"}
	h.relay.Answer(s2, &domain.SignalMessage{
		Type:         EventAnswer,
		RoomID:       meeting.RoomID,
		TargetUserID: s1.user.ID.String(),
		Answer:       answer,
	})

	got := s1.received(EventAnswer)
	require.Len(t, got, 1)
	assert.Equal(t, answer, got[0].Data.(AnswerData).Answer)
	assert.Equal(t, s2.user.ID, got[0].Data.(AnswerData).FromUserID)

	sdpMid := "0"
	candidate := &webrtc.ICECandidateInit{Candidate: "candidate:1", SDPMid: &sdpMid}
	h.relay.Candidate(s1, &domain.SignalMessage{
		Type:         EventICECandidate,
		RoomID:       meeting.RoomID,
		TargetUserID: s2.user.ID.String(),
		Candidate:    candidate,
	})

	ice := s2.received(EventICECandidate)
	require.Len(t, ice, 1)
	assert.Equal(t, candidate, ice[0].Data.(CandidateData).Candidate)
	assert.Equal(t, s1.user.ID, ice[0].Data.(CandidateData).FromUserID)
}

func TestEndCallBroadcastsToOthers(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	s2 := newFakeSession("Bob")
	s3 := newFakeSession("Carol")
	h.join(t, s1, meeting.RoomID)
	h.join(t, s2, meeting.RoomID)
	h.join(t, s3, meeting.RoomID)

	h.relay.EndCall(s1, meeting.RoomID)

	assert.Empty(t, s1.received(EventEndCall))
	for _, other := range []*fakeSession{s2, s3} {
		got := other.received(EventEndCall)
		require.Len(t, got, 1)
		assert.Equal(t, s1.user.ID, got[0].Data.(EndCallData).UserID)
	}
}

func TestMediaToggleBroadcastsToOthers(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	s2 := newFakeSession("Bob")
	h.join(t, s1, meeting.RoomID)
	h.join(t, s2, meeting.RoomID)

	h.relay.MediaToggle(s1, meeting.RoomID, "video", false)

	assert.Empty(t, s1.received(EventMediaToggle))

	got := s2.received(EventMediaToggle)
	require.Len(t, got, 1)
	data := got[0].Data.(MediaToggleData)
	assert.Equal(t, "video", data.MediaType)
	assert.False(t, data.Enabled)
	assert.Equal(t, s1.user.ID, data.UserID)
}

func TestReconnectRequestReturnsMembership(t *testing.T) {
	h := newHarness(t)
	meeting := h.newMeeting(t, "Standup")

	s1 := newFakeSession("Alice")
	s2 := newFakeSession("Bob")
	h.join(t, s1, meeting.RoomID)
	h.join(t, s2, meeting.RoomID)

	h.relay.ReconnectRequest(s1, meeting.RoomID)

	got := s1.received(EventParticipantsList)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Data.(ParticipantsData).Participants, 2)
	assert.Empty(t, s2.received(EventParticipantsList))
}
