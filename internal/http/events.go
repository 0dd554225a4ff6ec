package httpapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"codemart-backend-go/internal/services"
)

var allowedEventTables = map[string]bool{
	services.TableMaterials:    true,
	services.TableGallery:      true,
	services.TableInteractions: true,
}

// EventsSocket streams row-level change events. Subscription scope comes from
// query params: table (required) and material_id (optional row filter).
func (s *Server) EventsSocket(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if !allowedEventTables[table] {
		WriteError(w, http.StatusBadRequest, "Unknown table")
		return
	}
	materialID := strings.TrimSpace(r.URL.Query().Get("material_id"))

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Events.Subscribe(conn, table, materialID)
	defer func() {
		s.Events.Unsubscribe(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
