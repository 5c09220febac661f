package runtime

import (
	"net/http"

	"github.com/drblury/kioskwire/internal/runtime/jsoncodec"
)

// ConnectionStatus is the body served by /api/listeners.
type ConnectionStatus struct {
	ConnectionID string         `json:"connection_id"`
	Transport    string         `json:"transport"`
	Connected    bool           `json:"connected"`
	Listeners    map[string]int `json:"listeners"`
}

// Status returns a snapshot of the connection state and its listener
// registrations.
func (c *Connection) Status() ConnectionStatus {
	return ConnectionStatus{
		ConnectionID: c.id,
		Transport:    c.Conf.Transport,
		Connected:    c.Connected(),
		Listeners:    c.registry.Tags(),
	}
}

// StatusHandler serves Status as JSON. Run mounts it at /api/listeners on the
// metrics server.
func (c *Connection) StatusHandler() http.Handler {
	return http.HandlerFunc(c.handleGetStatus)
}

func (c *Connection) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := jsoncodec.Marshal(c.Status())
	if err != nil {
		c.Logger.Error("Failed to encode connection status", err, nil)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
