package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// healthHandler reports liveness: the loop is healthy while readings
// keep landing and the broker (when configured) is reachable.
type healthHandler struct {
	mqtt  mqtt.Client // nil when MQTT is not configured
	mon   *Monitor
	stale time.Duration
}

func NewHealthHandler(client mqtt.Client, mon *Monitor, stale time.Duration) http.Handler {
	return &healthHandler{mqtt: client, mon: mon, stale: stale}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		LastReadingAgeS float64 `json:"last_reading_age_sec"`
	}
	mqttOK := h.mqtt == nil || h.mqtt.IsConnectionOpen()
	fresh := h.mon.LastGoodAge() <= h.stale

	st := status{
		MQTTConnected:   h.mqtt != nil && h.mqtt.IsConnectionOpen(),
		LastReadingAgeS: h.mon.LastGoodAge().Seconds(),
	}
	switch {
	case mqttOK && fresh:
		st.Status = "ok"
	case mqttOK || fresh:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

type readyHandler struct {
	mqtt  mqtt.Client
	mon   *Monitor
	stale time.Duration
}

// NewReadyHandler returns 200 only once readings are flowing and the
// broker connection (when configured) is up.
func NewReadyHandler(client mqtt.Client, mon *Monitor, stale time.Duration) http.Handler {
	return &readyHandler{mqtt: client, mon: mon, stale: stale}
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ready := (h.mqtt == nil || h.mqtt.IsConnectionOpen()) && h.mon.LastGoodAge() <= h.stale
	// Headers must be set before WriteHeader or they are dropped.
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	type resp struct {
		Ready bool `json:"ready"`
	}
	_ = json.NewEncoder(w).Encode(resp{Ready: ready})
}
