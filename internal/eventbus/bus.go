package eventbus

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Observer is notified about every published envelope. Used for usage
// accounting without subscribing to individual topics.
type Observer interface {
	OnPublish(env Envelope)
}

// Bus orchestrates topic-based publish/subscribe messaging between the
// transport, the session manager and the agent runtime.
type Bus struct {
	logger       *log.Logger
	mu           sync.RWMutex
	subscribers  map[Topic]map[uint64]*Subscription
	topicBuffers map[Topic]int
	observers    []Observer
	nextID       uint64
}

// New constructs a bus with default topic buffer sizes.
func New(opts ...BusOption) *Bus {
	defaults := map[Topic]int{
		TopicSessionsLifecycle: 64,
		TopicUtterance:         256,
		TopicConversationReply: 256,
		TopicConversationSpeak: 128,
		TopicToolInvoked:       128,
		TopicPersonaTransfer:   64,
		TopicPipelineError:     64,
	}

	bus := &Bus{
		logger:       log.Default(),
		subscribers:  make(map[Topic]map[uint64]*Subscription),
		topicBuffers: defaults,
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// BusOption customises bus behaviour.
type BusOption func(*Bus)

// WithLogger overrides the logger used for drop warnings.
func WithLogger(logger *log.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTopicBuffer sets the subscription buffer size for a given topic.
func WithTopicBuffer(topic Topic, size int) BusOption {
	return func(b *Bus) {
		if size <= 0 {
			size = 1
		}
		b.topicBuffers[topic] = size
	}
}

// WithObserver registers an observer notified of every publish.
func WithObserver(obs Observer) BusOption {
	return func(b *Bus) {
		if obs != nil {
			b.observers = append(b.observers, obs)
		}
	}
}

// Publish sends the envelope to all subscribers of its topic. If b is nil the
// call is a no-op, so components can run without a wired bus in tests.
func (b *Bus) Publish(ctx context.Context, env Envelope) {
	if b == nil || env.Topic == "" {
		return
	}
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}
	if env.Source == "" {
		env.Source = SourceUnknown
	}

	b.mu.RLock()
	for _, obs := range b.observers {
		obs.OnPublish(env)
	}
	subs := b.subscribers[env.Topic]
	for _, sub := range subs {
		sub.deliver(env, b.logger)
	}
	b.mu.RUnlock()
}

// Subscribe registers a subscriber for the given topic.
// If b is nil the returned Subscription has a closed channel and Close is a no-op.
func (b *Bus) Subscribe(topic Topic, opts ...SubscriptionOption) *Subscription {
	if b == nil {
		ch := make(chan Envelope)
		close(ch)
		sub := &Subscription{ch: ch}
		sub.closed.Store(true)
		return sub
	}

	cfg := subscriptionConfig{bufferSize: b.topicBuffers[topic]}
	if cfg.bufferSize <= 0 {
		cfg.bufferSize = 1
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := atomic.AddUint64(&b.nextID, 1)
	sub := &Subscription{
		topic: topic,
		id:    id,
		name:  cfg.name,
		ch:    make(chan Envelope, cfg.bufferSize),
		bus:   b,
	}

	b.mu.Lock()
	if _, exists := b.subscribers[topic]; !exists {
		b.subscribers[topic] = make(map[uint64]*Subscription)
	}
	b.subscribers[topic][id] = sub
	b.mu.Unlock()

	return sub
}

// Shutdown closes all subscriptions and empties routing tables.
func (b *Bus) Shutdown() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, subs := range b.subscribers {
		for id, sub := range subs {
			sub.closeLocked()
			delete(subs, id)
		}
		delete(b.subscribers, topic)
	}
}

// SubscriptionOption customises individual subscriptions.
type SubscriptionOption func(*subscriptionConfig)

type subscriptionConfig struct {
	bufferSize int
	name       string
}

// WithSubscriptionBuffer overrides the channel buffer for a subscription.
func WithSubscriptionBuffer(size int) SubscriptionOption {
	return func(cfg *subscriptionConfig) {
		if size > 0 {
			cfg.bufferSize = size
		}
	}
}

// WithSubscriptionName records a human friendly identifier used in logs.
func WithSubscriptionName(name string) SubscriptionOption {
	return func(cfg *subscriptionConfig) {
		cfg.name = name
	}
}

// Subscription represents a consumer listening to a topic.
type Subscription struct {
	topic Topic
	id    uint64
	name  string
	ch    chan Envelope

	bus     *Bus
	closed  atomic.Bool
	dropped atomic.Uint64
}

// C exposes the event channel.
func (s *Subscription) C() <-chan Envelope {
	return s.ch
}

// Dropped returns the number of envelopes discarded due to backpressure.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close removes the subscription from the bus and closes its channel.
func (s *Subscription) Close() {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return
	}
	if s.bus != nil {
		s.bus.mu.Lock()
		if subs, ok := s.bus.subscribers[s.topic]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(s.bus.subscribers, s.topic)
			}
		}
		s.bus.mu.Unlock()
	}
	close(s.ch)
}

// closeLocked closes the channel without touching routing tables; the caller
// already holds the bus lock.
func (s *Subscription) closeLocked() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.ch)
}

// deliver enqueues the envelope, dropping the oldest queued event when the
// subscriber is full. Losing the oldest turn is preferable to blocking the
// turn that is in flight.
func (s *Subscription) deliver(env Envelope, logger *log.Logger) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- env:
		return
	default:
	}

	select {
	case <-s.ch:
		s.dropped.Add(1)
		if logger != nil {
			logger.Printf("[EventBus] subscriber %s/%s full, dropped oldest event (total %d)",
				s.topic, s.name, s.dropped.Load())
		}
	default:
	}

	select {
	case s.ch <- env:
	default:
		s.dropped.Add(1)
	}
}
