package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits list-valued variables
    "time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers, durations for the
// scheduler and delivery timeouts.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port the webhook server listens on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    GroupChatID     int64         // chat id of the library group for broadcasts
    MessengerURL    string        // base URL of the chat gateway for outbound messages
    Offices         []string      // offices whose shelves the catalog covers
    SessionBackend  string        // "memory" or "redis"
    SessionTTL      time.Duration // idle lifetime of a dialogue session
    SweepInterval   time.Duration // reminder sweep period
    OverdueCooldown time.Duration // minimum gap between repeated overdue reminders
    DeliveryTimeout time.Duration // bound on a single outbound delivery attempt
    AMQPURL         string        // RabbitMQ URL for loan events (optional)
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),      // environment (dev/test/prod)
        Port:            must("APP_PORT"),     // port to bind the webhook server
        DBUser:          must("DB_USER"),      // database user
        DBPass:          os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:          must("DB_HOST"),      // database host
        DBPort:          must("DB_PORT"),      // database port
        DBName:          must("DB_NAME"),      // database name
        GroupChatID:     mustInt64("GROUP_CHAT_ID"),
        MessengerURL:    must("MESSENGER_URL"),
        Offices:         envList("OFFICES", []string{"Stone Towers", "Manhatten", "Известия"}),
        SessionBackend:  envStr("SESSION_BACKEND", "memory"),
        SessionTTL:      envDur("SESSION_TTL", 30*time.Minute),
        SweepInterval:   envDur("REMINDER_SWEEP_INTERVAL", 5*time.Minute),
        OverdueCooldown: envDur("REMINDER_OVERDUE_COOLDOWN", 2*time.Hour),
        DeliveryTimeout: envDur("DELIVERY_TIMEOUT", 10*time.Second),
        AMQPURL:         os.Getenv("RABBITMQ_URL"), // empty disables loan events
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt64 is like must() but converts the retrieved string into an
// int64. If conversion fails, the application logs a fatal error and exits.
func mustInt64(key string) int64 {
    s := must(key)
    n, err := strconv.ParseInt(s, 10, 64)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envList(k string, d []string) []string {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    parts := strings.Split(v, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    if len(out) == 0 {
        return d
    }
    return out
}

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
