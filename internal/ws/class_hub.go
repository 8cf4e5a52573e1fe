package ws

import (
    "encoding/json"
    "time"

    "github.com/gorilla/websocket"
)

const (
    writeWait  = 10 * time.Second
    pongWait   = 60 * time.Second
    pingPeriod = (pongWait * 9) / 10
)

const (
    EventAssignmentCreated  = "assignment_created"
    EventSubmissionReceived = "submission_received"
    EventStudentJoined      = "student_joined"
)

// StreamEvent is what class stream subscribers receive: something
// happened in a class, who did it, and to what.
type StreamEvent struct {
    Type    string    `json:"type"`
    ClassID string    `json:"class_id"`
    Subject string    `json:"subject,omitempty"` // assignment title etc.
    Actor   string    `json:"actor,omitempty"`
    At      time.Time `json:"at"`
}

// ClassHub fans stream events out to websocket clients subscribed to a
// class. All state lives behind the run loop; controllers only call
// Broadcast.
type ClassHub struct {
    register   chan *classClient
    unregister chan *classClient
    events     chan StreamEvent
    clients    map[string]map[*classClient]struct{} // classID -> clients
}

func NewClassHub() *ClassHub {
    return &ClassHub{
        register:   make(chan *classClient),
        unregister: make(chan *classClient),
        events:     make(chan StreamEvent, 256),
        clients:    make(map[string]map[*classClient]struct{}),
    }
}

func (h *ClassHub) Run() {
    for {
        select {
        case client := <-h.register:
            if h.clients[client.classID] == nil {
                h.clients[client.classID] = make(map[*classClient]struct{})
            }
            h.clients[client.classID][client] = struct{}{}
        case client := <-h.unregister:
            if set, ok := h.clients[client.classID]; ok {
                if _, ok := set[client]; ok {
                    delete(set, client)
                    if len(set) == 0 {
                        delete(h.clients, client.classID)
                    }
                }
            }
        case event := <-h.events:
            payload, err := json.Marshal(event)
            if err != nil {
                continue
            }
            for client := range h.clients[event.ClassID] {
                select {
                case client.send <- payload:
                default:
                    client.conn.Close()
                    delete(h.clients[event.ClassID], client)
                }
            }
        }
    }
}

// Broadcast queues an event for the class's subscribers. Safe on a nil
// hub so controllers work without realtime wired up (tests).
func (h *ClassHub) Broadcast(event StreamEvent) {
    if h == nil {
        return
    }
    if event.At.IsZero() {
        event.At = time.Now().UTC()
    }
    select {
    case h.events <- event:
    default:
        // drop rather than block a request on a saturated hub
    }
}

type classClient struct {
    hub     *ClassHub
    conn    *websocket.Conn
    send    chan []byte
    classID string
}

func newClassClient(hub *ClassHub, conn *websocket.Conn, classID string) *classClient {
    return &classClient{
        hub:     hub,
        conn:    conn,
        send:    make(chan []byte, 64),
        classID: classID,
    }
}

func (c *classClient) readPump() {
    defer func() {
        c.hub.unregister <- c
        c.conn.Close()
    }()
    c.conn.SetReadLimit(512)
    c.conn.SetReadDeadline(time.Now().Add(pongWait))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(pongWait))
        return nil
    })
    for {
        if _, _, err := c.conn.ReadMessage(); err != nil {
            break
        }
    }
}

func (c *classClient) writePump() {
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
            w, err := c.conn.NextWriter(websocket.TextMessage)
            if err != nil {
                return
            }
            if _, err := w.Write(msg); err != nil {
                return
            }
            if err := w.Close(); err != nil {
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
