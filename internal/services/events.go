package services

import (
	"context"

	"github.com/gorilla/websocket"
)

const (
	TableMaterials    = "materials"
	TableGallery      = "gallery_images"
	TableInteractions = "interactions"

	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event is one row-level change pushed to subscribers. New and Old carry the
// full row so a consumer can re-validate its own bounded query instead of
// splicing the event into a page blindly.
type Event struct {
	Table      string      `json:"table"`
	Type       string      `json:"eventType"`
	New        interface{} `json:"new,omitempty"`
	Old        interface{} `json:"old,omitempty"`
	MaterialID string      `json:"materialId,omitempty"`
}

type eventSubscriber struct {
	conn       *websocket.Conn
	table      string
	materialID string
}

// EventHub fans change events out to websocket subscribers. Registration and
// broadcast both go through channels so the clients map is only touched by
// the Run goroutine. A full buffer drops the event rather than blocking the
// mutation that produced it.
type EventHub struct {
	clients    map[*websocket.Conn]eventSubscriber
	events     chan Event
	register   chan eventSubscriber
	unregister chan *websocket.Conn
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:    map[*websocket.Conn]eventSubscriber{},
		events:     make(chan Event, 64),
		register:   make(chan eventSubscriber, 8),
		unregister: make(chan *websocket.Conn, 8),
	}
}

func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case sub := <-h.register:
			h.clients[sub.conn] = sub
		case conn := <-h.unregister:
			delete(h.clients, conn)
		case event := <-h.events:
			for conn, sub := range h.clients {
				if !sub.matches(event) {
					continue
				}
				if err := conn.WriteJSON(event); err != nil {
					delete(h.clients, conn)
					_ = conn.Close()
				}
			}
		case <-ctx.Done():
			for conn := range h.clients {
				_ = conn.Close()
			}
			return
		}
	}
}

func (sub eventSubscriber) matches(event Event) bool {
	if sub.table != "" && sub.table != event.Table {
		return false
	}
	if sub.materialID != "" && sub.materialID != event.MaterialID {
		return false
	}
	return true
}

func (h *EventHub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
	}
}

func (h *EventHub) Subscribe(conn *websocket.Conn, table, materialID string) {
	h.register <- eventSubscriber{conn: conn, table: table, materialID: materialID}
}

func (h *EventHub) Unsubscribe(conn *websocket.Conn) {
	h.unregister <- conn
}
