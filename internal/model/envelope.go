package model

// Envelope is the MQTT wire form of a Reading. The ID is unique per
// publish, so consumers can drop QoS 1 redeliveries.
type Envelope struct {
	ID      string  `json:"id"`
	Reading Reading `json:"reading"`
}
