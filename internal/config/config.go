package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Driver names accepted in a connection profile.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
	Log         Log          `mapstructure:"log" yaml:"log"`
}

// Connection represents a saved database connection profile.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
	Path     string `mapstructure:"path" yaml:"path,omitempty"`
	Keyring  bool   `mapstructure:"keyring" yaml:"keyring,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
	PageSize          int    `mapstructure:"page_size" yaml:"page_size"`
	SortBy            string `mapstructure:"sort_by" yaml:"sort_by"`
	PreCheck          bool   `mapstructure:"precheck" yaml:"precheck"`
	RoutinesScript    string `mapstructure:"routines_script" yaml:"routines_script,omitempty"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// DriverName returns the profile driver, defaulting to postgres.
func (c Connection) DriverName() string {
	if c.Driver == "" {
		return DriverPostgres
	}
	return strings.ToLower(c.Driver)
}

// DSN builds the connection string for the profile: a PostgreSQL URL, or
// the database file path for sqlite.
func (c Connection) DSN() string {
	if c.DriverName() == DriverSQLite {
		return c.Path
	}

	u := url.URL{
		Scheme: "postgresql",
		Host:   c.Host,
		Path:   "/" + c.Database,
	}
	if c.Port > 0 {
		u.Host += ":" + strconv.Itoa(c.Port)
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	if c.DriverName() == DriverSQLite {
		return "sqlite:" + c.Path
	}
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseDSN parses a connection string into a Connection. PostgreSQL URLs are
// split into their parts; sqlite:<path> and file paths become sqlite profiles.
func ParseDSN(dsn string) (Connection, error) {
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		if path == "" {
			return Connection{}, fmt.Errorf("invalid DSN: empty sqlite path")
		}
		return Connection{Name: "sqlite-" + path, Driver: DriverSQLite, Path: path}, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Connection{}, fmt.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	}

	conn := Connection{
		Driver:   DriverPostgres,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, _ = strconv.Atoi(portStr)
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}

	conn.Name = fmt.Sprintf("postgres-%s-%d-%s", conn.Host, conn.Port, conn.Database)

	return conn, nil
}

// HasConnection checks if a connection with the given name already exists.
func (cfg *Config) HasConnection(name string) bool {
	for _, c := range cfg.Connections {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AddConnection appends a connection if it doesn't already exist.
func (cfg *Config) AddConnection(conn Connection) {
	if !cfg.HasConnection(conn.Name) {
		cfg.Connections = append(cfg.Connections, conn)
	}
}
