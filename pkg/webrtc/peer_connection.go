package webrtc

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/pion/webrtc/v4"
)

// PeerConnectionOptions represents options for peer connection
type PeerConnectionOptions struct {
	ICEServers []webrtc.ICEServer
}

// DefaultPeerConnectionOptions returns default options
func DefaultPeerConnectionOptions() PeerConnectionOptions {
	return PeerConnectionOptions{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

// PeerConnection wraps a WebRTC peer connection for trickle-ICE use:
// local candidates surface through OnICECandidate as they are gathered,
// and remote candidates arriving before the remote description are
// queued and flushed once it is set.
type PeerConnection struct {
	pc      *webrtc.PeerConnection
	options PeerConnectionOptions

	pendingCandidates deque.Deque[webrtc.ICECandidateInit]
	candidatesMu      sync.Mutex
}

// NewPeerConnection creates a new peer connection
func NewPeerConnection(options PeerConnectionOptions) (*PeerConnection, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: options.ICEServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create peer connection: %w", err)
	}

	return &PeerConnection{
		pc:      pc,
		options: options,
	}, nil
}

// Close closes the peer connection
func (p *PeerConnection) Close() error {
	return p.pc.Close()
}

// CreateDataChannel creates a locally initiated data channel
func (p *PeerConnection) CreateDataChannel(label string) (*DataChannel, error) {
	dc, err := p.pc.CreateDataChannel(label, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create data channel: %w", err)
	}

	return NewDataChannel(dc), nil
}

// CreateOffer creates an SDP offer and installs it as the local
// description. Candidates trickle afterwards; gathering is not awaited.
func (p *PeerConnection) CreateOffer() (webrtc.SessionDescription, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to create offer: %w", err)
	}

	if err := p.pc.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to set local description: %w", err)
	}

	return offer, nil
}

// CreateAnswer creates an SDP answer and installs it as the local
// description.
func (p *PeerConnection) CreateAnswer() (webrtc.SessionDescription, error) {
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to create answer: %w", err)
	}

	if err := p.pc.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to set local description: %w", err)
	}

	return answer, nil
}

// SetRemoteDescription sets the remote SDP
func (p *PeerConnection) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	if err := p.pc.SetRemoteDescription(sdp); err != nil {
		return fmt.Errorf("failed to set remote description: %w", err)
	}

	p.flushPendingCandidates()

	return nil
}

// AddICECandidate adds a remote ICE candidate, queueing it if the remote
// description has not been applied yet.
func (p *PeerConnection) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	if p.pc.RemoteDescription() == nil {
		p.candidatesMu.Lock()
		p.pendingCandidates.PushBack(candidate)
		p.candidatesMu.Unlock()
		return nil
	}

	if err := p.pc.AddICECandidate(candidate); err != nil {
		return fmt.Errorf("failed to add ICE candidate: %w", err)
	}

	return nil
}

// PendingCandidates returns how many remote candidates are queued.
func (p *PeerConnection) PendingCandidates() int {
	p.candidatesMu.Lock()
	defer p.candidatesMu.Unlock()
	return p.pendingCandidates.Len()
}

// OnICECandidate registers a handler for locally gathered candidates.
// The handler is not invoked for the gathering-complete nil candidate.
func (p *PeerConnection) OnICECandidate(f func(webrtc.ICECandidateInit)) {
	p.pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			return
		}
		f(candidate.ToJSON())
	})
}

// OnDataChannel registers a handler for remotely initiated data channels.
func (p *PeerConnection) OnDataChannel(f func(*DataChannel)) {
	p.pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		f(NewDataChannel(dc))
	})
}

// OnConnectionStateChange registers a connection state handler.
func (p *PeerConnection) OnConnectionStateChange(f func(webrtc.PeerConnectionState)) {
	p.pc.OnConnectionStateChange(f)
}

// flushPendingCandidates applies queued remote candidates in arrival
// order.
func (p *PeerConnection) flushPendingCandidates() {
	p.candidatesMu.Lock()
	candidates := make([]webrtc.ICECandidateInit, 0, p.pendingCandidates.Len())
	for p.pendingCandidates.Len() > 0 {
		candidates = append(candidates, p.pendingCandidates.PopFront())
	}
	p.candidatesMu.Unlock()

	for _, candidate := range candidates {
		// A stale candidate is not fatal; the rest still apply.
		_ = p.pc.AddICECandidate(candidate)
	}
}
