package webrtc

import (
	"errors"

	"github.com/pion/webrtc/v4"
)

// ErrDataChannelNotOpen the channel is not in the open state
var ErrDataChannelNotOpen = errors.New("data channel is not open")

// DataChannel is the bidirectional channel handed to the caller once the
// handshake completes. Writes are rejected until the channel opens.
type DataChannel struct {
	dc *webrtc.DataChannel
}

// NewDataChannel wraps an established or pending pion data channel.
func NewDataChannel(dc *webrtc.DataChannel) *DataChannel {
	return &DataChannel{dc: dc}
}

// Label returns the data channel label
func (d *DataChannel) Label() string {
	return d.dc.Label()
}

// ReadyState returns the data channel ready state
func (d *DataChannel) ReadyState() webrtc.DataChannelState {
	return d.dc.ReadyState()
}

// Send sends data over the data channel
func (d *DataChannel) Send(data []byte) error {
	if d.dc.ReadyState() != webrtc.DataChannelStateOpen {
		return ErrDataChannelNotOpen
	}

	return d.dc.Send(data)
}

// SendText sends text data over the data channel
func (d *DataChannel) SendText(text string) error {
	return d.Send([]byte(text))
}

// Close closes the data channel
func (d *DataChannel) Close() error {
	return d.dc.Close()
}

// OnOpen sets the open event handler
func (d *DataChannel) OnOpen(f func()) {
	d.dc.OnOpen(f)
}

// OnClose sets the close event handler
func (d *DataChannel) OnClose(f func()) {
	d.dc.OnClose(f)
}

// OnMessage sets the message event handler, delivering raw payload bytes.
func (d *DataChannel) OnMessage(f func([]byte)) {
	d.dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		f(msg.Data)
	})
}
