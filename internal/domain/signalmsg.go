package domain

import "github.com/pion/webrtc/v3"

// SignalMessage is one inbound realtime frame. The gateway decodes every
// frame into this envelope and dispatches on Type; SDP and ICE payloads are
// carried as pion types but never inspected by the relay.
type SignalMessage struct {
	Type         string                     `json:"type"`
	RoomID       string                     `json:"roomId,omitempty"`
	MeetingID    string                     `json:"meetingId,omitempty"`
	Message      string                     `json:"message,omitempty"`
	MessageType  string                     `json:"messageType,omitempty"`
	TargetUserID string                     `json:"targetUserId,omitempty"`
	IsTyping     bool                       `json:"isTyping,omitempty"`
	MediaType    string                     `json:"mediaType,omitempty"`
	Enabled      bool                       `json:"enabled,omitempty"`
	Offer        *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer       *webrtc.SessionDescription `json:"answer,omitempty"`
	Candidate    *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}
