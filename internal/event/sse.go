package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const eventBufferSize = 256

type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	done    chan struct{}
	mu      sync.RWMutex
	once    sync.Once
}

func NewSSEServer() *SSEServer {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, eventBufferSize),
		done:    make(chan struct{}),
	}
}

// Register subscribes client to topic.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	total := len(s.clients[topic])
	s.mu.Unlock()

	log.Info().Str("topic", topic).Int("clients", total).Msg("sse client registered")
}

// Unregister removes client from topic and closes it.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	remaining := 0
	if clients, ok := s.clients[topic]; ok {
		if clients[client] {
			delete(clients, client)
			close(client)
		}
		remaining = len(clients)
		if remaining == 0 {
			delete(s.clients, topic)
		}
	}
	s.mu.Unlock()

	log.Info().Str("topic", topic).Int("clients", remaining).Msg("sse client unregistered")
}

// Broadcast queues event for delivery. It never blocks; the event is dropped when the queue is full.
func (s *SSEServer) Broadcast(event Event) {
	select {
	case <-s.done:
	case s.events <- event:
	default:
		log.Warn().Str("topic", event.Topic).Str("type", event.Type).Msg("event queue full, event dropped")
	}
}

// Run dispatches queued events until Close is called.
func (s *SSEServer) Run() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.dispatch(event)
		}
	}
}

func (s *SSEServer) dispatch(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for client := range s.clients[event.Topic] {
		select {
		case client <- event:
		default:
			// slow client
			log.Warn().Str("topic", event.Topic).Msg("sse client buffer full, event dropped")
		}
	}
}

// Close stops Run. Events broadcast afterwards are discarded.
func (s *SSEServer) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
