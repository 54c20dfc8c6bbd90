package match

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

// SignalKind identifies the negotiation payload carried inside a relayed
// signal. The relay server never looks at it; only the two handshake
// clients produce and consume these.
type SignalKind string

const (
	SignalKindOffer     SignalKind = "offer"
	SignalKindAnswer    SignalKind = "answer"
	SignalKindCandidate SignalKind = "candidate"
)

type Signal struct {
	Kind      SignalKind                 `json:"kind"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}

func NewOfferSignal(sdp webrtc.SessionDescription) (json.RawMessage, error) {
	return json.Marshal(Signal{Kind: SignalKindOffer, SDP: &sdp})
}

func NewAnswerSignal(sdp webrtc.SessionDescription) (json.RawMessage, error) {
	return json.Marshal(Signal{Kind: SignalKindAnswer, SDP: &sdp})
}

func NewCandidateSignal(candidate webrtc.ICECandidateInit) (json.RawMessage, error) {
	return json.Marshal(Signal{Kind: SignalKindCandidate, Candidate: &candidate})
}
