package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/JimLiu0/provider-dashboard/internal/events"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"
	"github.com/JimLiu0/provider-dashboard/internal/view"
)

const (
	MessageTypeView  = "view"
	MessageTypeRows  = "rows"
	MessageTypeError = "error"

	ActionToggleSort     = "toggle_sort"
	ActionSetSort        = "set_sort"
	ActionClearSort      = "clear_sort"
	ActionSetFilterField = "set_filter_field"
	ActionSetOperator    = "set_operator"
	ActionSetFilterValue = "set_filter_value"
	ActionRefresh        = "refresh"

	inboxSize   = 16
	loadTimeout = 10 * time.Second
)

// Conn is the subset of *websocket.Conn the manager uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

type PatientLister interface {
	SelectAll(ctx context.Context) ([]Patient, error)
}

type Message struct {
	Type     string   `json:"type"`
	Action   string   `json:"action,omitempty"`
	Field    Field    `json:"field,omitempty"`
	Desc     bool     `json:"desc,omitempty"`
	Operator Operator `json:"operator,omitempty"`
	Value    string   `json:"value,omitempty"`
}

type RowsMessage struct {
	Type        string           `json:"type"`
	Spec        ViewSpec         `json:"spec"`
	Rows        []view.Row       `json:"rows"`
	Total       int              `json:"total"`
	Shown       int              `json:"shown"`
	EmptyReason view.EmptyReason `json:"emptyReason"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Client is one dashboard connection. Its Table is touched only by the
// goroutine running run.
type Client struct {
	conn    Conn
	table   *view.Table
	inbox   chan Message
	refresh chan struct{}
	quit    chan struct{}
}

type Manager struct {
	mu          sync.Mutex
	clients     map[*Client]struct{}
	patients    PatientLister
	eventBus    *events.EventBus
	unsubscribe func()
	clock       func() time.Time
	log         logger.Logger
}

func New(patients PatientLister, eventBus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets").Function("New")

	if patients == nil {
		return nil, log.ErrMsg("patient lister is nil")
	}
	if eventBus == nil {
		return nil, log.ErrMsg("event bus is nil")
	}

	m := &Manager{
		clients:  make(map[*Client]struct{}),
		patients: patients,
		eventBus: eventBus,
		clock:    time.Now,
		log:      logger.New("websockets"),
	}
	m.unsubscribe = eventBus.Subscribe(events.ChannelPatients, m.handleEvent)

	return m, nil
}

// HandleWebSocket serves one connection and returns once it is closed.
func (m *Manager) HandleWebSocket(conn Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		conn:    conn,
		table:   view.NewTable(m.clock),
		inbox:   make(chan Message, inboxSize),
		refresh: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}

	m.register(client)
	defer m.unregister(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.run(client)
	}()

	m.readLoop(client)
	close(client.quit)
	<-done

	if err := conn.Close(); err != nil {
		log.Debug("connection already closed", "error", err)
	}
}

func (m *Manager) readLoop(client *Client) {
	log := m.log.Function("readLoop")

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}

		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			log.Warn("ignoring malformed message", "error", err)
			continue
		}
		if message.Type != MessageTypeView {
			log.Warn("ignoring unknown message type", "type", message.Type)
			continue
		}

		select {
		case client.inbox <- message:
		case <-client.quit:
			return
		}
	}
}

func (m *Manager) run(client *Client) {
	m.reload(client)

	for {
		select {
		case <-client.quit:
			return
		case <-client.refresh:
			m.reload(client)
		case message := <-client.inbox:
			if message.Action == ActionRefresh {
				m.reload(client)
				continue
			}
			if err := apply(client.table, message); err != nil {
				m.write(client, ErrorMessage{Type: MessageTypeError, Message: err.Error()})
				continue
			}
			m.sendRows(client)
		}
	}
}

var (
	ErrUnknownAction = errors.New("unknown view action")
	ErrInvalidField  = errors.New("invalid field")
	ErrInvalidOp     = errors.New("operator not allowed for filter field")
)

func apply(table *view.Table, message Message) error {
	switch message.Action {
	case ActionToggleSort:
		if !table.ToggleSort(message.Field) {
			return ErrInvalidField
		}
	case ActionSetSort:
		if !table.SetSort(SortSpec{Field: message.Field, Desc: message.Desc}) {
			return ErrInvalidField
		}
	case ActionClearSort:
		table.ClearSort()
	case ActionSetFilterField:
		if !table.SetFilterField(message.Field) {
			return ErrInvalidField
		}
	case ActionSetOperator:
		if !table.SetOperator(message.Operator) {
			return ErrInvalidOp
		}
	case ActionSetFilterValue:
		table.SetFilterValue(message.Value)
	default:
		return ErrUnknownAction
	}
	return nil
}

func (m *Manager) reload(client *Client) {
	log := m.log.Function("reload")

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	patients, err := m.patients.SelectAll(ctx)
	if err != nil {
		log.Er("failed to load patients", err)
		m.write(client, ErrorMessage{Type: MessageTypeError, Message: "failed to load patients"})
		return
	}

	client.table.SetRecords(patients)
	m.sendRows(client)
}

func (m *Manager) sendRows(client *Client) {
	start := time.Now()
	rows := client.table.Rows()
	monitoring.PipelineDuration.Observe(time.Since(start).Seconds())

	m.write(client, RowsMessage{
		Type:        MessageTypeRows,
		Spec:        client.table.Spec(),
		Rows:        rows,
		Total:       client.table.Total(),
		Shown:       len(rows),
		EmptyReason: client.table.EmptyReason(),
	})
}

func (m *Manager) write(client *Client, payload any) {
	if err := client.conn.WriteJSON(payload); err != nil {
		m.log.Function("write").Debug("failed to write message", "error", err)
	}
}

func (m *Manager) handleEvent(event events.Event) {
	if event.Type != events.TypePatientCreated {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for client := range m.clients {
		select {
		case client.refresh <- struct{}{}:
		default:
		}
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	m.clients[client] = struct{}{}
	m.mu.Unlock()
	monitoring.WebsocketConnections.Inc()
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	delete(m.clients, client)
	m.mu.Unlock()
	monitoring.WebsocketConnections.Dec()
}

func (m *Manager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
