package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options describes how to reach the server and how to enumerate keys.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	// URL, when set, overrides Host, Port, Username, Password and DB.
	URL string
	// Timeout applies to dialing, reads and writes. Zero keeps go-redis defaults.
	Timeout time.Duration
	// Match is the SCAN MATCH pattern; empty means every key.
	Match string
	// ScanCount is the SCAN COUNT hint.
	ScanCount int64
	// MaxKeys stops listing after this many keys; zero is unlimited.
	MaxKeys int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Host:      "127.0.0.1",
		Port:      6379,
		Timeout:   5 * time.Second,
		Match:     "*",
		ScanCount: 1000,
	}
}

func (o Options) clientOptions() (*redis.Options, error) {
	var opts *redis.Options
	if strings.TrimSpace(o.URL) != "" {
		parsed, err := redis.ParseURL(strings.TrimSpace(o.URL))
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		opts = parsed
	} else {
		if o.Port <= 0 || o.Port > 65535 {
			return nil, fmt.Errorf("invalid port %d", o.Port)
		}
		if o.DB < 0 {
			return nil, fmt.Errorf("invalid db index %d", o.DB)
		}
		host := o.Host
		if host == "" {
			host = "127.0.0.1"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, strconv.Itoa(o.Port)),
			Username: o.Username,
			Password: o.Password,
			DB:       o.DB,
		}
	}
	// RESP2 keeps HGETALL as a flat array in server order.
	opts.Protocol = 2
	if o.Timeout > 0 {
		opts.DialTimeout = o.Timeout
		opts.ReadTimeout = o.Timeout
		opts.WriteTimeout = o.Timeout
	}
	return opts, nil
}

// Redis is a Store backed by a go-redis client.
type Redis struct {
	client    *redis.Client
	addr      string
	db        int
	match     string
	scanCount int64
	maxKeys   int
}

// NewRedis builds a client from opts. It does not contact the server; call
// Ping to verify the connection.
func NewRedis(opts Options) (*Redis, error) {
	co, err := opts.clientOptions()
	if err != nil {
		return nil, err
	}
	match := opts.Match
	if match == "" {
		match = "*"
	}
	count := opts.ScanCount
	if count <= 0 {
		count = 1000
	}
	return &Redis{
		client:    redis.NewClient(co),
		addr:      co.Addr,
		db:        co.DB,
		match:     match,
		scanCount: count,
		maxKeys:   opts.MaxKeys,
	}, nil
}

// Addr returns the host:port the client talks to.
func (r *Redis) Addr() string { return r.addr }

// DB returns the selected database index.
func (r *Redis) DB() int { return r.db }

// Ping checks that the server is reachable and the credentials work.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return r.wrap(err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// ListKeys walks the keyspace with SCAN and returns the distinct keys in
// lexical order.
func (r *Redis) ListKeys(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, r.match, r.scanCount).Result()
		if err != nil {
			return nil, r.wrap(err)
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
			if r.maxKeys > 0 && len(keys) >= r.maxKeys {
				sort.Strings(keys)
				return keys, nil
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// KeyType issues TYPE for key.
func (r *Redis) KeyType(ctx context.Context, key string) (TypeTag, error) {
	s, err := r.client.Type(ctx, key).Result()
	if err != nil {
		return 0, r.wrap(err)
	}
	return ParseTypeTag(s)
}

// TTL issues PTTL for key.
func (r *Redis) TTL(ctx context.Context, key string) (TTL, error) {
	d, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return TTL{}, r.wrap(err)
	}
	return TTLFromReply(d), nil
}

// ReadValue fetches the whole value of key using the command for tag.
func (r *Redis) ReadValue(ctx context.Context, key string, tag TypeTag) (Value, error) {
	switch tag {
	case TypeString:
		b, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			return nil, r.wrap(err)
		}
		return StringValue{Data: b}, nil
	case TypeHash:
		flat, err := r.client.Do(ctx, "HGETALL", key).StringSlice()
		if err != nil {
			return nil, r.wrap(err)
		}
		if len(flat) == 0 {
			return nil, ErrNotFound
		}
		if len(flat)%2 != 0 {
			return nil, fmt.Errorf("%w: odd HGETALL reply length %d", ErrTypeMismatch, len(flat))
		}
		fields := make([]HashField, 0, len(flat)/2)
		for i := 0; i < len(flat); i += 2 {
			fields = append(fields, HashField{Field: []byte(flat[i]), Value: []byte(flat[i+1])})
		}
		return HashValue{Fields: fields}, nil
	case TypeList:
		items, err := r.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, r.wrap(err)
		}
		if len(items) == 0 {
			return nil, ErrNotFound
		}
		return ListValue{Items: toBytes(items)}, nil
	case TypeSet:
		members, err := r.client.SMembers(ctx, key).Result()
		if err != nil {
			return nil, r.wrap(err)
		}
		if len(members) == 0 {
			return nil, ErrNotFound
		}
		return SetValue{Members: toBytes(members)}, nil
	case TypeSortedSet:
		zs, err := r.client.ZRangeWithScores(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, r.wrap(err)
		}
		if len(zs) == 0 {
			return nil, ErrNotFound
		}
		entries := make([]ScoredMember, 0, len(zs))
		for _, z := range zs {
			entries = append(entries, ScoredMember{Member: []byte(fmt.Sprint(z.Member)), Score: z.Score})
		}
		return SortedSetValue{Entries: entries}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, tag)
	}
}

func (r *Redis) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	var serverErr redis.Error
	if errors.As(err, &serverErr) {
		if strings.HasPrefix(serverErr.Error(), "WRONGTYPE") {
			return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return err
	}
	return &ConnectionError{Addr: r.addr, Err: err}
}

func toBytes(in []string) [][]byte {
	out := make([][]byte, len(in))
	for i, s := range in {
		out[i] = []byte(s)
	}
	return out
}
