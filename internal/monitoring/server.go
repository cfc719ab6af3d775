// Package monitoring runs the side-channel ops server: live system stats
// plus a websocket feed of domain events (bookings rung up, tickets sold or
// voided) for the back-office dashboard.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"salon-backend/internal/cache"
)

// Event is one domain occurrence pushed to connected dashboards
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Stats is the /api/stats snapshot
type Stats struct {
	DatabaseStatus string  `json:"database_status"`
	RedisStatus    string  `json:"redis_status"`
	ResponseTime   int64   `json:"response_time_ms"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	MemoryUsed     string  `json:"memory_used"`
	MemoryTotal    string  `json:"memory_total"`
	DiskPercent    float64 `json:"disk_percent"`
	DiskUsed       string  `json:"disk_used"`
	DiskTotal      string  `json:"disk_total"`
	Uptime         string  `json:"uptime"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server serves the monitoring API and fans domain events out to websocket
// clients. Its Broadcast method is safe for concurrent use and never blocks
// the caller: a full feed drops events rather than stalling a booking.
type Server struct {
	db      *pgxpool.Pool
	port    int
	started time.Time

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	feed       chan Event

	recent    []Event
	recentMux sync.RWMutex
}

func NewServer(db *pgxpool.Pool, port int) *Server {
	return &Server{
		db:      db,
		port:    port,
		started: time.Now(),
		clients: make(map[*websocket.Conn]bool),
		feed:    make(chan Event, 256),
	}
}

// Broadcast queues a domain event for delivery to connected dashboards
func (s *Server) Broadcast(event string, payload interface{}) {
	ev := Event{Type: event, Payload: payload, Timestamp: time.Now()}
	select {
	case s.feed <- ev:
	default:
		log.Printf("[Monitoring] Event feed full, dropping %s", event)
	}
}

// Start runs the monitoring server; blocks, call in a goroutine
func (s *Server) Start() {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", s.getStats).Methods("GET")
	r.HandleFunc("/api/events", s.getRecentEvents).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)

	go s.pump()

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[Monitoring] Dashboard API running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats := Stats{Uptime: time.Since(s.started).Round(time.Second).String()}

	begin := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "down"
	} else {
		stats.DatabaseStatus = "up"
	}
	stats.ResponseTime = time.Since(begin).Milliseconds()

	if cache.IsHealthy() {
		stats.RedisStatus = "up"
	} else {
		stats.RedisStatus = "down"
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
		stats.DiskUsed = formatBytes(du.Used)
		stats.DiskTotal = formatBytes(du.Total)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) getRecentEvents(w http.ResponseWriter, r *http.Request) {
	s.recentMux.RLock()
	events := make([]Event, len(s.recent))
	copy(events, s.recent)
	s.recentMux.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMux.Lock()
	s.clients[conn] = true
	s.clientsMux.Unlock()

	// Reader loop only notices disconnects; dashboards never send data
	go func() {
		defer func() {
			s.clientsMux.Lock()
			delete(s.clients, conn)
			s.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) pump() {
	for ev := range s.feed {
		s.remember(ev)

		s.clientsMux.Lock()
		for conn := range s.clients {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				delete(s.clients, conn)
			}
		}
		s.clientsMux.Unlock()
	}
}

const recentEventLimit = 100

func (s *Server) remember(ev Event) {
	s.recentMux.Lock()
	defer s.recentMux.Unlock()
	s.recent = append(s.recent, ev)
	if len(s.recent) > recentEventLimit {
		s.recent = s.recent[len(s.recent)-recentEventLimit:]
	}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
