package tracking

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cicine00/7ouma/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection represents a single WebSocket client watching one or more
// bookings.
type connection struct {
	userID uuid.UUID
	role   string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans tracking events out to connections grouped by booking id. A room
// exists while it has at least one watcher. Membership lives only on the
// connection: after a reconnect the client must send join again or it stops
// receiving events.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*connection]struct{}),
	}
}

func (h *Hub) join(bookingID uuid.UUID, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[bookingID]
	if !ok {
		room = make(map[*connection]struct{})
		h.rooms[bookingID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(bookingID uuid.UUID, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[bookingID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, bookingID)
	}
}

func (h *Hub) leaveAll(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for bookingID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, bookingID)
		}
	}
}

// broadcast delivers an event to every watcher of the booking. Slow clients
// with a full send buffer are skipped rather than blocking the sender.
func (h *Hub) broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[event.BookingID] {
		select {
		case c.send <- data:
		default:
			// Client too slow — skip
		}
	}
}

func (h *Hub) PublishLocation(bookingID, providerID uuid.UUID, lat, lng, heading float64) {
	h.broadcast(NewLocationEvent(bookingID, providerID, lat, lng, heading))
}

func (h *Hub) AnnounceArrival(bookingID, providerID uuid.UUID, minutesAway int) {
	h.broadcast(NewArrivalEvent(bookingID, providerID, minutesAway))
}

// NotifyStatusChanged satisfies the booking module's StatusNotifier.
func (h *Hub) NotifyStatusChanged(bookingID uuid.UUID, status domain.BookingStatus) {
	h.broadcast(NewStatusEvent(bookingID, status))
}

// WatcherCount reports how many connections are in a booking's room.
func (h *Hub) WatcherCount(bookingID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[bookingID])
}

// ServeWS runs the read/write loops for an upgraded connection. Blocks until
// the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID uuid.UUID, role string) {
	c := &connection{
		userID: userID,
		role:   role,
		conn:   conn,
		send:   make(chan []byte, 256),
	}

	go h.writePump(c)
	h.readPump(c)
}

// clientMessage is what watchers send over the socket.
type clientMessage struct {
	Action      string    `json:"action"`
	BookingID   uuid.UUID `json:"booking_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Heading     float64   `json:"heading"`
	MinutesAway int       `json:"minutes_away"`
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.leaveAll(c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("tracking: read error user=%s: %v", c.userID, err)
			}
			return
		}

		var m clientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}
		if m.BookingID == uuid.Nil {
			continue
		}

		switch m.Action {
		case "join":
			h.join(m.BookingID, c)
		case "leave":
			h.leave(m.BookingID, c)
		case "publish_location":
			// Only providers broadcast positions.
			if c.role != string(domain.RoleProvider) {
				continue
			}
			h.PublishLocation(m.BookingID, c.userID, m.Latitude, m.Longitude, m.Heading)
		case "announce_arrival":
			if c.role != string(domain.RoleProvider) {
				continue
			}
			h.AnnounceArrival(m.BookingID, c.userID, m.MinutesAway)
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
