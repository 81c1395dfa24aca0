package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"discoBot/internal/app/events"
)

const writeTimeout = 5 * time.Second

// Envelope es el formato de cada evento enviado a los clientes.
type Envelope struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Server expone el feed de actividad del bot por WebSocket.
type Server struct {
	addr     string
	bus      *events.Bus
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// NewServer crea el servidor escuchando en addr (ej. ":8080").
func NewServer(addr string, bus *events.Bus, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:   addr,
		bus:    bus,
		logger: logger.Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Routes devuelve el handler HTTP con /healthz y /ws/events.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws/events", s.handleWS)
	return r
}

// Start levanta el HTTP server y reenvía los eventos del bus hasta que el
// contexto se cancela.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		s.Forward(ctx)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("shutdown error", zap.Error(err))
		}
		s.closeClients()
	}()

	s.logger.Info("activity feed listening", zap.String("addr", s.addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	<-forwardDone
	return err
}

// Forward se suscribe a todos los temas del bus y los difunde hasta que ctx
// termina.
func (s *Server) Forward(ctx context.Context) {
	if s.bus == nil {
		<-ctx.Done()
		return
	}

	var wg sync.WaitGroup
	for _, topic := range events.Topics {
		ch, unsubscribe := s.bus.Subscribe(topic)
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-ch:
					if !ok {
						return
					}
					s.Broadcast(topic, payload)
				}
			}
		}(topic)
	}
	wg.Wait()
}

// Broadcast envía el evento a cada cliente; los que fallan se desconectan.
func (s *Server) Broadcast(topic string, payload any) {
	envelope := Envelope{
		ID:        uuid.NewString(),
		Type:      topic,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Data:      payload,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Warn("marshal event", zap.String("topic", topic), zap.Error(err))
		return
	}

	for _, c := range s.snapshot() {
		if err := c.writeJSON(json.RawMessage(raw)); err != nil {
			s.logger.Debug("removing client due to write error", zap.Error(err))
			s.drop(c)
		}
	}
}

// Clients devuelve cuántos clientes hay conectados.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.Clients(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade error", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", clientCount))

	go s.readLoop(client)
}

// readLoop sólo detecta el cierre; el feed es de una sola dirección.
func (s *Server) readLoop(client *wsClient) {
	defer s.drop(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) snapshot() []*wsClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	return clients
}

func (s *Server) drop(c *wsClient) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	clientCount := len(s.clients)
	s.mu.Unlock()

	if ok {
		c.conn.Close()
		s.logger.Info("client disconnected", zap.Int("clients", clientCount))
	}
}

func (s *Server) closeClients() {
	for _, c := range s.snapshot() {
		s.drop(c)
	}
}
