package relay

import (
	"context"
	"sync"
	"time"

	"github.com/HMasataka/rally/payload/match"
	"github.com/samber/lo"
)

// Peerはマッチテーブルから見た1本のコントロールプレーン接続を抽象化したインターフェースです。
// 接続自体が参加者の識別子であり、別途のアカウント識別は存在しません。
//
//go:generate mockgen -source registry.go -destination mock/registry.go
type Peer interface {
	ID() string
	Send(ctx context.Context, msg *match.Message) error
}

// Match links exactly two peers under one code. Joiner is nil until a
// join succeeds; it is set at most once.
type Match struct {
	Code      string
	Initiator Peer
	Joiner    Peer
	CreatedAt time.Time
}

func (m *Match) references(p Peer) bool {
	return m.Initiator == p || (m.Joiner != nil && m.Joiner == p)
}

// Peer resolves the connection holding the given role, or nil.
func (m *Match) Peer(role match.Role) Peer {
	switch role {
	case match.RoleInitiator:
		return m.Initiator
	case match.RoleJoiner:
		return m.Joiner
	default:
		return nil
	}
}

// Registry owns the live match table. All mutation goes through its
// mutex; no other component holds a reference to a Match across calls.
type Registry struct {
	mu              sync.RWMutex
	matches         map[string]*Match
	codeLength      int
	maxCodeAttempts int
}

type RegistryOptions struct {
	CodeLength int
	// MaxCodeAttempts bounds collision retries during Create.
	MaxCodeAttempts int
}

func DefaultRegistryOptions() RegistryOptions {
	return RegistryOptions{
		CodeLength:      DefaultCodeLength,
		MaxCodeAttempts: 16,
	}
}

func NewRegistry(options RegistryOptions) *Registry {
	if options.CodeLength <= 0 {
		options.CodeLength = DefaultCodeLength
	}
	if options.MaxCodeAttempts <= 0 {
		options.MaxCodeAttempts = DefaultRegistryOptions().MaxCodeAttempts
	}

	return &Registry{
		matches:         make(map[string]*Match),
		codeLength:      options.CodeLength,
		maxCodeAttempts: options.MaxCodeAttempts,
	}
}

// Create inserts a new open match for the initiator and returns it.
func (r *Registry) Create(initiator Peer) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.uniqueCode()
	if err != nil {
		return nil, err
	}

	m := &Match{
		Code:      code,
		Initiator: initiator,
		CreatedAt: time.Now(),
	}
	r.matches[code] = m

	return m, nil
}

// Join pairs the peer into the match identified by code. A rejected join
// leaves the match untouched.
func (r *Registry) Join(code string, joiner Peer) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[code]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Joiner != nil {
		return nil, ErrMatchFull
	}
	if m.Initiator == joiner {
		return nil, ErrSelfJoin
	}

	m.Joiner = joiner

	return m, nil
}

// Resolve returns the peer holding the target role in the match.
func (r *Registry) Resolve(code string, role match.Role) (Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[code]
	if !ok {
		return nil, ErrMatchNotFound
	}

	target := m.Peer(role)
	if target == nil {
		return nil, ErrTargetUnavailable
	}

	return target, nil
}

// DropPeer removes every match referencing the peer and returns the
// counterpart peers that are still paired and should be notified. After
// DropPeer returns, no table entry references the peer.
func (r *Registry) DropPeer(p Peer) []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := lo.PickBy(r.matches, func(_ string, m *Match) bool {
		return m.references(p)
	})

	counterparts := make([]Peer, 0, len(dropped))
	for code, m := range dropped {
		delete(r.matches, code)

		if m.Initiator != nil && m.Initiator != p {
			counterparts = append(counterparts, m.Initiator)
		}
		if m.Joiner != nil && m.Joiner != p {
			counterparts = append(counterparts, m.Joiner)
		}
	}

	return counterparts
}

// Get returns the match for code, if any.
func (r *Registry) Get(code string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[code]
	return m, ok
}

// Len returns the number of live matches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matches)
}

func (r *Registry) uniqueCode() (string, error) {
	for i := 0; i < r.maxCodeAttempts; i++ {
		code, err := GenerateCode(r.codeLength)
		if err != nil {
			return "", err
		}

		if _, exists := r.matches[code]; !exists {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}
