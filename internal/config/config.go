package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// StaticDir is the absolute path to the directory served at /static/.
	// Set via STATIC_DIR (relative paths are resolved against the process working directory at startup).
	StaticDir string

	// APIBaseURL is the parking REST API, without trailing slashes.
	APIBaseURL string
	APITimeout time.Duration

	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int

	// MQTTBroker empty disables spot event publishing.
	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string

	// OTLPEndpoint empty disables trace export.
	OTLPEndpoint string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	staticDir := strings.TrimSpace(os.Getenv("STATIC_DIR"))
	if staticDir == "" {
		staticDir = "static"
	}
	staticDir, err = filepath.Abs(staticDir)
	if err != nil {
		return Config{}, fmt.Errorf("STATIC_DIR %q: %w", staticDir, err)
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("PARKING_API_BASE_URL")), "/")
	if apiBaseURL == "" {
		return Config{}, fmt.Errorf("PARKING_API_BASE_URL is required")
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid PARKING_API_BASE_URL %q (expected absolute http(s) URL)", apiBaseURL)
	}

	apiTimeoutStr := strings.TrimSpace(os.Getenv("PARKING_API_TIMEOUT"))
	if apiTimeoutStr == "" {
		apiTimeoutStr = "10s"
	}
	apiTimeout, err := time.ParseDuration(apiTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PARKING_API_TIMEOUT %q: %w", apiTimeoutStr, err)
	}
	if apiTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid PARKING_API_TIMEOUT %q: must be > 0", apiTimeoutStr)
	}

	centerLat, err := parseFloatEnv("MAP_CENTER_LAT", 28.0623, -90, 90)
	if err != nil {
		return Config{}, err
	}
	centerLon, err := parseFloatEnv("MAP_CENTER_LON", -82.4134, -180, 180)
	if err != nil {
		return Config{}, err
	}

	zoomStr := strings.TrimSpace(os.Getenv("MAP_ZOOM"))
	if zoomStr == "" {
		zoomStr = "16"
	}
	zoom, err := strconv.Atoi(zoomStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAP_ZOOM %q: %w", zoomStr, err)
	}
	if zoom < 2 || zoom > 19 {
		return Config{}, fmt.Errorf("invalid MAP_ZOOM %d (allowed: 2-19)", zoom)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "campus-parking-dashboard"
	}

	mqttTopicPrefix := strings.Trim(strings.TrimSpace(os.Getenv("MQTT_TOPIC_PREFIX")), "/")
	if mqttTopicPrefix == "" {
		mqttTopicPrefix = "campus-parking"
	}

	otlpEndpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        httpAddr,
		StaticDir:       staticDir,
		APIBaseURL:      apiBaseURL,
		APITimeout:      apiTimeout,
		MapCenterLat:    centerLat,
		MapCenterLon:    centerLon,
		MapZoom:         zoom,
		MQTTBroker:      mqttBroker,
		MQTTPort:        mqttPort,
		MQTTClientID:    mqttClientID,
		MQTTTopicPrefix: mqttTopicPrefix,
		OTLPEndpoint:    otlpEndpoint,
	}, nil
}

// MQTTEnabled reports whether spot events should be published.
func (c Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

func parseFloatEnv(name string, def, lo, hi float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %v (allowed: %v to %v)", name, v, lo, hi)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
