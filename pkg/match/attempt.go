package match

import (
	"context"
	"sync"
	"sync/atomic"

	payload "github.com/HMasataka/rally/payload/match"
	"github.com/gammazero/workerpool"
)

// attempt carries the state of one session attempt. A fresh attempt is
// constructed per CreateMatch/JoinMatch call; its role is set here and
// nowhere else, so no inbound message can ever reassign it.
type attempt struct {
	role   payload.Role
	ctx    context.Context
	cancel context.CancelFunc

	// signalWorker serializes inbound signal application off the
	// control-plane read loop.
	signalWorker *workerpool.WorkerPool

	// pending carries created/joined/error replies to a waiting entry
	// call.
	pending chan *payload.Message

	mu      sync.Mutex
	code    string
	neg     Negotiator
	dc      DataChannel
	stopped bool

	awaiting  atomic.Bool
	offered   atomic.Bool
	answered  atomic.Bool
	applied   atomic.Bool
	readyOnce sync.Once
	failOnce  sync.Once
	failErr   error
	failMu    sync.Mutex
}

func newAttempt(parent context.Context, role payload.Role) *attempt {
	ctx, cancel := context.WithCancel(parent)

	return &attempt{
		role:         role,
		ctx:          ctx,
		cancel:       cancel,
		signalWorker: workerpool.New(1),
		pending:      make(chan *payload.Message, 1),
	}
}

func (a *attempt) replies() chan *payload.Message {
	return a.pending
}

// submit queues work on the signal worker unless the attempt has been
// stopped.
func (a *attempt) submit(task func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	a.signalWorker.Submit(task)
}

func (a *attempt) Role() payload.Role {
	return a.role
}

func (a *attempt) Code() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.code
}

func (a *attempt) setCode(code string) {
	a.mu.Lock()
	a.code = code
	a.mu.Unlock()
}

func (a *attempt) negotiator() Negotiator {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.neg
}

func (a *attempt) setNegotiator(neg Negotiator) {
	a.mu.Lock()
	a.neg = neg
	a.mu.Unlock()
}

func (a *attempt) dataChannel() DataChannel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dc
}

func (a *attempt) setDataChannel(dc DataChannel) {
	a.mu.Lock()
	a.dc = dc
	a.mu.Unlock()
}

// fail records the terminal error and unblocks every pending wait.
// It reports whether this call was the one that fired.
func (a *attempt) fail(err error) bool {
	fired := false

	a.failOnce.Do(func() {
		fired = true

		a.failMu.Lock()
		a.failErr = err
		a.failMu.Unlock()

		a.cancel()
	})

	return fired
}

func (a *attempt) failure() error {
	a.failMu.Lock()
	defer a.failMu.Unlock()
	return a.failErr
}

// stop tears the attempt down. Safe to call multiple times and from any
// state.
func (a *attempt) stop() {
	a.mu.Lock()
	alreadyStopped := a.stopped
	a.stopped = true
	a.mu.Unlock()

	a.cancel()

	if !alreadyStopped {
		a.signalWorker.Stop()
	}

	if dc := a.dataChannel(); dc != nil {
		_ = dc.Close()
	}
	if neg := a.negotiator(); neg != nil {
		_ = neg.Close()
	}
}
