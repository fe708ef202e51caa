package watch

import "github.com/kelseyhightower/envconfig"

type Broker struct {
	Host     string `envconfig:"MQTT_HOST" default:"localhost"`
	Port     int    `envconfig:"MQTT_PORT" default:"1883"`
	User     string `envconfig:"MQTT_USER" default:"guest"`
	Password string `envconfig:"MQTT_PASSWORD" default:"guest"`
	ClientID string `envconfig:"MQTT_CLIENT_ID" default:"dhtmon-watch"`
}

type Config struct {
	Broker Broker

	Topic       string `envconfig:"WATCH_TOPIC" default:"sensor/reading/#"`
	DedupTTLMin int    `envconfig:"WATCH_DEDUP_TTL_MIN" default:"2"`
	DedupCap    int    `envconfig:"WATCH_DEDUP_CAP" default:"10000"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
