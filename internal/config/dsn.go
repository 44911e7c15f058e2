package config

import (
	"net/url"
	"regexp"
	"strings"
)

var dsnKeys = map[string]bool{
	"host": true, "port": true, "user": true,
	"password": true, "dbname": true, "sslmode": true,
}

// rawDSN is a DATABASE_DSN value stripped of quotes, with its key=value pairs
// extracted when it is not a URL.
type rawDSN struct {
	text string
	url  bool
	kv   map[string]string
}

func parseRawDSN(raw string) rawDSN {
	r := rawDSN{text: strings.Trim(strings.TrimSpace(raw), `"'`)}
	lower := strings.ToLower(r.text)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		r.url = true
		return r
	}
	for _, field := range strings.Fields(r.text) {
		k, v, ok := strings.Cut(field, "=")
		if !ok || !dsnKeys[strings.ToLower(k)] {
			continue
		}
		if r.kv == nil {
			r.kv = map[string]string{}
		}
		r.kv[strings.ToLower(k)] = v
	}
	return r
}

// NormalizeDSN trims quotes and whitespace from raw. Key=value lists are
// single-spaced and get sslmode=disable unless they set sslmode. Anything
// else is left for the driver to reject.
func NormalizeDSN(raw string) string {
	r := parseRawDSN(raw)
	if r.url || r.kv == nil {
		return r.text
	}
	s := strings.Join(strings.Fields(r.text), " ")
	if _, ok := r.kv["sslmode"]; !ok {
		s += " sslmode=disable"
	}
	return s
}

func postgresURL(host, port, user, password, dbname, sslmode string) string {
	u := &url.URL{Scheme: "postgres", Host: host, Path: "/" + dbname}
	if port != "" && port != "0" {
		u.Host += ":" + port
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	if sslmode != "" {
		u.RawQuery = url.Values{"sslmode": {sslmode}}.Encode()
	}
	return u.String()
}

var passwordKV = regexp.MustCompile(`(password=)([^\s]+)`)

// MaskDSN hides the password of a DSN for logging.
func MaskDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
			return u.String()
		}
	}
	return passwordKV.ReplaceAllString(dsn, `${1}***`)
}
