package storage

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	postgresConnectAttemptsDefault = 20
	postgresConnectDelayDefault    = 2 * time.Second
)

// buildPostgresDSNFromEnv assembles a DSN from the POSTGRES_* variables.
// POSTGRES_DSN wins when set; otherwise host+user+dbname are required.
func buildPostgresDSNFromEnv() string {
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		return dsn
	}

	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	dbName := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if host == "" || user == "" || dbName == "" {
		return ""
	}

	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	sslMode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + dbName,
	}
	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// openPostgresWithRetry keeps dialing until the database answers a ping.
// Containers usually start the bot before postgres is ready to accept
// connections, hence the generous default attempt count.
func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	attempts := getenvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", postgresConnectAttemptsDefault)
	delaySeconds := getenvInt("POSTGRES_CONNECT_RETRY_SECONDS", int(postgresConnectDelayDefault/time.Second))
	delay := time.Duration(delaySeconds) * time.Second
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
