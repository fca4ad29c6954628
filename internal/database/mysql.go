package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const defaultMySQLPort = 3306

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// buildMySQLDSN accepts a native go-sql-driver DSN, a mysql:// URL, or discrete fields.
// The last two are rendered through mysqldriver.Config with utf8mb4 and parseTime set.
func buildMySQLDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		if strings.HasPrefix(dsn, "mysql://") {
			return mysqlDSNFromURL(dsn)
		}
		return dsn, nil
	}

	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	return formatMySQLDSN(cfg.User, cfg.Password, net.JoinHostPort(host, strconv.Itoa(port)), cfg.Name, cfg.Options), nil
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if u.User == nil || u.User.Username() == "" || name == "" {
		return "", errors.New("mysql url requires user and database name")
	}

	port := u.Port()
	if port == "" {
		port = strconv.Itoa(defaultMySQLPort)
	}
	password, _ := u.User.Password()

	options := make(map[string]string)
	for key, values := range u.Query() {
		if len(values) > 0 {
			options[key] = values[0]
		}
	}

	return formatMySQLDSN(u.User.Username(), password, net.JoinHostPort(u.Hostname(), port), name, options), nil
}

func formatMySQLDSN(user, password, addr, name string, options map[string]string) string {
	dc := mysqldriver.NewConfig()
	dc.User = user
	dc.Passwd = password
	dc.Net = "tcp"
	dc.Addr = addr
	dc.DBName = name
	dc.ParseTime = true
	dc.Loc = time.Local
	dc.Params = map[string]string{"charset": "utf8mb4"}
	for key, value := range options {
		dc.Params[key] = value
	}
	return dc.FormatDSN()
}
