package nodelens

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Driver selects the client used to reach the node database.
type Driver string

const (
	DriverPostgres Driver = "postgres" // native pgx connection
	DriverPgx      Driver = "pgx"      // database/sql through pgx/v5/stdlib
	DriverMySQL    Driver = "mysql"
)

// Config describes how to reach a node database and the node around it.
type Config struct {
	Driver   Driver `json:"driver,omitempty" yaml:"driver,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"` // DSN or JDBC URL; overrides the fields below
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     string `json:"port,omitempty" yaml:"port,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DBName   string `json:"dbname,omitempty" yaml:"dbname,omitempty"`

	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	NodeRoot     string `json:"node_root,omitempty" yaml:"node_root,omitempty"`
	WebServerURL string `json:"web_server_url,omitempty" yaml:"web_server_url,omitempty"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("nodelens: failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("nodelens: failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvedDriver returns the driver to use, inferring it from a JDBC URL when unset.
func (c Config) ResolvedDriver() Driver {
	if c.Driver != "" {
		return c.Driver
	}
	switch jdbcSubprotocol(c.URL) {
	case "mysql", "mariadb":
		return DriverMySQL
	}
	return DriverPostgres
}

// DSN renders the connection string for the resolved driver.
func (c Config) DSN() (string, error) {
	if c.URL != "" {
		return c.urlDSN()
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	user := c.User
	dbname := c.DBName

	if c.ResolvedDriver() == DriverMySQL {
		if user == "" {
			user = "root"
		}
		port := c.Port
		if port == "" {
			port = "3306"
		}
		mc := mysql.NewConfig()
		mc.User = user
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(host, port)
		mc.DBName = dbname
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	}

	if user == "" {
		user = "postgres"
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}
	if dbname == "" {
		dbname = "postgres"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, c.Password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + dbname,
	}
	return u.String(), nil
}

// urlDSN converts Config.URL. JDBC URLs lose their "jdbc:" prefix; credentials from the
// config are filled in when the URL carries none.
func (c Config) urlDSN() (string, error) {
	raw := strings.TrimSpace(c.URL)
	sub := jdbcSubprotocol(raw)
	if sub == "" {
		return raw, nil
	}
	rest := strings.TrimPrefix(raw, "jdbc:")
	switch sub {
	case "postgresql", "postgres":
		u, err := url.Parse("postgres" + rest[len(sub):])
		if err != nil {
			return "", fmt.Errorf("nodelens: invalid JDBC URL %q: %w", raw, err)
		}
		q := u.Query()
		if u.User == nil && c.User != "" && q.Get("user") == "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		return u.String(), nil
	case "mysql", "mariadb":
		u, err := url.Parse("mysql" + rest[len(sub):])
		if err != nil {
			return "", fmt.Errorf("nodelens: invalid JDBC URL %q: %w", raw, err)
		}
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		if u.User != nil {
			mc.User = u.User.Username()
			mc.Passwd, _ = u.User.Password()
		}
		mc.Net = "tcp"
		mc.Addr = u.Host
		if u.Port() == "" {
			mc.Addr = net.JoinHostPort(u.Hostname(), "3306")
		}
		mc.DBName = strings.TrimPrefix(u.Path, "/")
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("%w: jdbc:%s", ErrUnsupportedDriver, sub)
	}
}

// jdbcSubprotocol returns "h2" for "jdbc:h2:tcp://..." and "" for non-JDBC URLs.
func jdbcSubprotocol(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "jdbc:") {
		return ""
	}
	rest := strings.TrimPrefix(raw, "jdbc:")
	i := strings.Index(rest, ":")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(rest[:i])
}
