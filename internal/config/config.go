package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses durations for hold expiry and sweeping
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The types reflect how the
// values are used: strings for identifiers and secrets, durations for
// timeouts, ints for percentages.
type Config struct {
	Env                string        // application environment (e.g. "dev", "prod")
	Port               string        // HTTP port to listen on
	DBUser             string        // database username
	DBPass             string        // database password (optional)
	DBHost             string        // database host address
	DBPort             string        // database port number
	DBName             string        // database name
	JWTSecret          string        // secret used to verify externally issued JWTs
	HoldTimeout        time.Duration // how long a seat hold survives without confirmation
	SweepInterval      time.Duration // how often the expiry sweep runs
	PremiumVIPPct      uint32        // VIP seat premium in whole percent
	PremiumSuperVIPPct uint32        // super-VIP seat premium in whole percent
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Optional knobs fall back to sensible defaults.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),  // environment (dev/test/prod)
		Port:               must("APP_PORT"), // port to bind the HTTP server
		DBUser:             must("DB_USER"),  // database user
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		JWTSecret:          must("JWT_SECRET"),
		HoldTimeout:        time.Duration(intOr("HOLD_TTL_MIN", 10)) * time.Minute,
		SweepInterval:      time.Duration(intOr("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		PremiumVIPPct:      uint32(intOr("PREMIUM_VIP_PCT", 50)),
		PremiumSuperVIPPct: uint32(intOr("PREMIUM_SUPER_VIP_PCT", 100)),
	}
}

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr returns the integer value of an environment variable, or def
// when the variable is unset or malformed.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("config: invalid int for %s: %q, using %d", key, s, def)
		return def
	}
	return n
}
