package db

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const defaultPostgresPort = 5432

// ConnInfo is a parsed connection descriptor.
type ConnInfo struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string

	// raw is set when the descriptor was already a lib/pq key=value DSN.
	raw string
}

// ParseError describes a connection descriptor that could not be understood.
type ParseError struct {
	Descriptor string
	Part       string
	Err        error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid database url %q: %s: %v", redact(e.Descriptor), e.Part, e.Err)
	}
	return fmt.Sprintf("invalid database url %q: %s", redact(e.Descriptor), e.Part)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDatabaseURL accepts postgres:// and postgresql:// URIs, jdbc:postgresql://
// URLs, lib/pq key=value DSNs (kept verbatim) and bare user:pass@host/db
// strings, which get the postgresql:// scheme prepended.
func ParseDatabaseURL(descriptor string) (*ConnInfo, error) {
	s := strings.TrimSpace(descriptor)
	if s == "" {
		return nil, &ParseError{Descriptor: descriptor, Part: "empty descriptor"}
	}

	s = strings.TrimPrefix(s, "jdbc:")

	switch {
	case strings.HasPrefix(s, "postgresql://"), strings.HasPrefix(s, "postgres://"):
	case !strings.Contains(s, "://") && isKeyValueDSN(s):
		return &ConnInfo{raw: s}, nil
	case strings.Contains(s, "://"):
		scheme, _, _ := strings.Cut(s, "://")
		return nil, &ParseError{Descriptor: descriptor, Part: fmt.Sprintf("unsupported scheme %q", scheme)}
	default:
		s = "postgresql://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		// url.Error repeats the raw descriptor; keep only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &ParseError{Descriptor: descriptor, Part: "uri", Err: err}
	}

	info := &ConnInfo{
		Host:     u.Hostname(),
		Port:     defaultPostgresPort,
		Database: strings.TrimPrefix(u.Path, "/"),
		Params:   map[string]string{},
	}
	if info.Host == "" {
		return nil, &ParseError{Descriptor: descriptor, Part: "missing host"}
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, &ParseError{Descriptor: descriptor, Part: fmt.Sprintf("port %q", p), Err: err}
		}
		info.Port = port
	}

	if u.User != nil {
		info.User = u.User.Username()
		info.Password, _ = u.User.Password()
	}

	for k, v := range u.Query() {
		if len(v) > 0 {
			info.Params[k] = v[len(v)-1]
		}
	}
	if _, ok := info.Params["sslmode"]; !ok {
		info.Params["sslmode"] = "disable"
	}

	return info, nil
}

// DSN renders the lib/pq key=value connection string.
func (c *ConnInfo) DSN() string {
	if c.raw != "" {
		return c.raw
	}

	parts := []string{
		"host=" + quoteValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
	}
	if c.User != "" {
		parts = append(parts, "user="+quoteValue(c.User))
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	if c.Database != "" {
		parts = append(parts, "dbname="+quoteValue(c.Database))
	}

	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quoteValue(c.Params[k]))
	}

	return strings.Join(parts, " ")
}

// String is the DSN with the password masked, safe for logs.
func (c *ConnInfo) String() string {
	if c.raw != "" {
		return redact(c.raw)
	}
	return fmt.Sprintf("postgresql://%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}

func isKeyValueDSN(s string) bool {
	first, _, _ := strings.Cut(s, " ")
	key, _, ok := strings.Cut(first, "=")
	return ok && key != "" && !strings.ContainsAny(key, "/@:")
}

// quoteValue follows libpq: empty values and values with spaces, quotes or
// backslashes are single-quoted with \ escapes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// redact masks the password of any accepted descriptor form. It normalizes
// the descriptor the same way ParseDatabaseURL does before looking for
// credentials.
func redact(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "jdbc:")
	if s == "" {
		return s
	}
	if !strings.Contains(s, "://") && isKeyValueDSN(s) {
		return redactKeyValue(s)
	}
	if !strings.Contains(s, "://") {
		s = "postgresql://" + s
	}

	if u, err := url.Parse(s); err == nil {
		if u.User == nil {
			return s
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
		return u.String()
	}

	// Unparsable: mask everything between the first ':' of the userinfo and
	// the last '@'.
	scheme, rest, _ := strings.Cut(s, "://")
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return scheme + "://" + rest
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return scheme + "://" + rest
	}
	return scheme + "://" + user + ":xxxxx" + rest[at:]
}

func redactKeyValue(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
