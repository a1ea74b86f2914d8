package envcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by BLOG_STORE.
const (
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Addr            string
	Secret          string
	SessionFormat   string
	Store           string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisPrefix     string
	NATSURL         string
	NATSSubject     string
	Audit           bool
	Metrics         bool
	CascadeDelete   bool
	CookieSecure    bool
	CookieHTTPOnly  bool
	ShutdownTimeout time.Duration
}

// Lookup resolves a single variable. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// LoadDotEnv reads the given .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("envcfg: %s: %w", f, err)
		}
	}
	return nil
}

// Load loads .env and builds Settings from the process environment.
func Load(files ...string) (Settings, error) {
	if err := LoadDotEnv(files...); err != nil {
		return Settings{}, err
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds Settings from an arbitrary lookup function.
func FromLookup(lookup Lookup) (Settings, error) {
	e := env{lookup: lookup}
	s := Settings{
		Addr:            e.String("BLOG_ADDR", ":8080"),
		Secret:          e.String("BLOG_SECRET", ""),
		SessionFormat:   strings.ToLower(e.String("BLOG_SESSION_FORMAT", "hmac")),
		Store:           strings.ToLower(e.String("BLOG_STORE", StoreRedis)),
		DSN:             e.String("BLOG_DSN", ""),
		RedisAddr:       e.String("REDIS_ADDR", ""),
		RedisPassword:   e.String("REDIS_PASSWORD", ""),
		RedisDB:         e.Int("REDIS_DB", 0),
		RedisPrefix:     e.String("BLOG_REDIS_PREFIX", "blog"),
		NATSURL:         e.String("BLOG_NATS_URL", ""),
		NATSSubject:     e.String("BLOG_NATS_SUBJECT", "goblog.audit"),
		Audit:           e.Bool("BLOG_AUDIT", false),
		Metrics:         e.Bool("BLOG_METRICS", true),
		CascadeDelete:   e.Bool("BLOG_CASCADE_DELETE", false),
		CookieSecure:    e.Bool("BLOG_COOKIE_SECURE", false),
		CookieHTTPOnly:  e.Bool("BLOG_COOKIE_HTTPONLY", false),
		ShutdownTimeout: e.Duration("BLOG_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := e.err(); err != nil {
		return Settings{}, err
	}

	switch s.Store {
	case StoreRedis, StoreSQLite, StorePostgres:
	default:
		return Settings{}, fmt.Errorf("envcfg: BLOG_STORE: unsupported store %q", s.Store)
	}
	if s.Store != StoreRedis && s.DSN == "" {
		if s.Store == StoreSQLite {
			s.DSN = "goblog.db"
		} else {
			return Settings{}, errors.New("envcfg: BLOG_DSN is required for postgres")
		}
	}
	return s, nil
}

type env struct {
	lookup Lookup
	errs   []error
}

func (e *env) err() error {
	return errors.Join(e.errs...)
}

// String returns the trimmed value of key, or def when unset or blank.
func (e *env) String(key, def string) string {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func (e *env) Int(key string, def int) int {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("envcfg: %s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (e *env) Bool(key string, def bool) bool {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("envcfg: %s: %q is not a boolean", key, v))
		return def
	}
	return b
}

func (e *env) Duration(key string, def time.Duration) time.Duration {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		e.errs = append(e.errs, fmt.Errorf("envcfg: %s: %q is not a duration", key, v))
		return def
	}
	return d
}
