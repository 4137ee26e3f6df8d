package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	bybitAPIKeyENV    = "BYBIT_API_KEY"
	bybitSecretENV    = "BYBIT_SECRET_KEY"
)

// Config ...
type Config struct {
	Telegram struct {
		Token   string `yaml:"token"`
		OwnerID int64  `yaml:"owner_id"`
		ChatID  int64  `yaml:"chat_id"` // приватный канал для сообщений бота
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	Bybit struct {
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
		// Маркет-дата всегда с боевого рынка, трейды — по Testnet.
		Testnet bool `yaml:"testnet"`
	} `yaml:"bybit"`

	// Стример
	WSShards          int           // сколько независимых ws-соединений под топики
	WSHeartbeatEvery  time.Duration // пинг, иначе Bybit рвёт соединение
	WSReconnectPause  time.Duration
	WSHandoffWorkers  int // воркеры записи свечей в буфер
	WSHandoffQueueMax int

	// Движок
	TickInterval     time.Duration // период основного цикла
	SettingsPollWait time.Duration // ожидание настроек на старте
	WarmupPause      time.Duration // пауза после исторической загрузки (rate limit)

	// Уровни
	LevelRetryCooldown time.Duration // пауза перед повторными фазами

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		WSShards:          intFromEnv("WS_SHARDS", 3),
		WSHeartbeatEvery:  durationFromEnv("WS_HEARTBEAT_EVERY", "20s"),
		WSReconnectPause:  durationFromEnv("WS_RECONNECT_PAUSE", "1s"),
		WSHandoffWorkers:  intFromEnv("WS_HANDOFF_WORKERS", 4),
		WSHandoffQueueMax: intFromEnv("WS_HANDOFF_QUEUE_MAX", 1024),

		TickInterval:     durationFromEnv("TICK_INTERVAL", "1s"),
		SettingsPollWait: durationFromEnv("SETTINGS_POLL_WAIT", "1s"),
		WarmupPause:      durationFromEnv("WARMUP_PAUSE", "5s"),

		LevelRetryCooldown: durationFromEnv("LEVEL_RETRY_COOLDOWN", "2s"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(bybitAPIKeyENV); v != "" {
		config.Bybit.APIKey = v
	}
	if v := os.Getenv(bybitSecretENV); v != "" {
		config.Bybit.SecretKey = v
	}

	if config.Health.Addr == "" {
		config.Health.Addr = ":8080"
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
