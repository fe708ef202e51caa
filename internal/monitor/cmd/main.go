package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/alakhotiya/dhtmon/internal/monitor"
	"github.com/alakhotiya/dhtmon/internal/report"
	"github.com/alakhotiya/dhtmon/internal/sensor"
	"github.com/alakhotiya/dhtmon/internal/sensor/dht"
	"github.com/alakhotiya/dhtmon/internal/sensor/sim"
	"github.com/alakhotiya/dhtmon/pkg/mqtt"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func main() {
	_ = godotenv.Load()

	sensorKind := flag.String("sensor", envStr("DHTMON_SENSOR", "dht11"), "sensor driver: dht11 or sim")
	pinName := flag.String("pin", envStr("DHTMON_PIN", "GPIO4"), "GPIO pin wired to the sensor data line")
	sensorID := flag.String("sensor-id", envStr("DHTMON_SENSOR_ID", "dht11"), "sensor identifier")
	interval := flag.Duration("interval", envDuration("DHTMON_INTERVAL", monitor.DefaultInterval), "polling interval")
	outPath := flag.String("out", envStr("DHTMON_OUT", ""), "output device path (default stdout)")
	httpPort := flag.Int("http-port", envInt("HTTP_PORT", 8080), "metrics/health HTTP port")
	mqttOn := flag.Bool("mqtt", os.Getenv("MQTT_HOST") != "", "publish readings over MQTT")
	simFailRate := flag.Float64("sim-failure-rate", 0.05, "failed read fraction for the sim driver")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Output stream ----
	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.OpenFile(*outPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			log.Fatalf("open output %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	// ---- Sensor ----
	var (
		sens sensor.Sensor
		err  error
	)
	switch *sensorKind {
	case "sim":
		sens = sim.NewGenerator(*sensorID, time.Now().UnixNano(), *simFailRate)
	case "dht11":
		if _, err = host.Init(); err != nil {
			log.Fatalf("gpio host init: %v", err)
		}
		pin := gpioreg.ByName(*pinName)
		if pin == nil {
			log.Fatalf("unknown GPIO pin %q", *pinName)
		}
		sens, err = dht.New(pin, *sensorID)
		if err != nil {
			log.Fatalf("dht11 init: %v", err)
		}
	default:
		log.Fatalf("unknown sensor driver %q", *sensorKind)
	}

	// ---- Reporters ----
	reporters := []report.Reporter{
		report.NewConsole(out),
		report.NewMetrics(prometheus.DefaultRegisterer),
	}

	var mqttClient paho.Client
	if *mqttOn {
		cfg := &mqtt.Config{
			Host:     envStr("MQTT_HOST", "localhost"),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", "guest"),
			Password: envStr("MQTT_PASSWORD", "guest"),
			ClientID: envStr("MQTT_CLIENT_ID", "dhtmon-"+*sensorID),
		}
		mqttClient, err = mqtt.Connect(ctx, cfg)
		if err != nil {
			log.Fatalf("mqtt connect: %v", err)
		}
		pub := mqtt.NewPublisher(mqttClient, "sensor/reading/"+*sensorID, 1)
		reporters = append(reporters, report.NewBreaker("mqtt", report.BreakerConfig{
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			MaxFailures: 5,
		}, report.NewMQTT(pub)))
	}

	mon := monitor.New(sens, report.NewMulti(reporters...), *interval)

	// ---- HTTP: metrics and health ----
	stale := 3 * *interval
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", monitor.NewHealthHandler(mqttClient, mon, stale))
	mux.Handle("/readyz", monitor.NewReadyHandler(mqttClient, mon, stale))
	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(*httpPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("dhtmon: HTTP listening on :%d", *httpPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// ---- Shutdown on signal ----
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		log.Println("dhtmon: shutting down...")
		cancel()
	}()

	mon.Run(ctx)

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
}
