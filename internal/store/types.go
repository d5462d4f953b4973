// Package store defines the read-only view of a Redis-protocol key-value
// server that the browser consumes, together with the typed values it
// returns and a go-redis backed implementation.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TypeTag classifies the data shape of a key's value.
type TypeTag int

const (
	TypeString TypeTag = iota
	TypeHash
	TypeList
	TypeSet
	TypeSortedSet
)

// String returns the name the server uses for the type in TYPE replies.
func (t TypeTag) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeHash:
		return "hash"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeSortedSet:
		return "zset"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseTypeTag maps a TYPE reply to a TypeTag. "none" yields ErrNotFound and
// any type the browser cannot render yields ErrUnsupportedType.
func ParseTypeTag(s string) (TypeTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return TypeString, nil
	case "hash":
		return TypeHash, nil
	case "list":
		return TypeList, nil
	case "set":
		return TypeSet, nil
	case "zset":
		return TypeSortedSet, nil
	case "none", "":
		return 0, ErrNotFound
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, s)
	}
}

// TTLState distinguishes the possible answers for a key's expiry.
type TTLState int

const (
	// TTLUnknown means the TTL has not been fetched yet.
	TTLUnknown TTLState = iota
	// TTLPersistent means the key has no expiry.
	TTLPersistent
	// TTLExpiring means the key expires after Remaining.
	TTLExpiring
	// TTLMissing means the server reported the key as absent.
	TTLMissing
)

// TTL is the expiry of a key. The zero value is TTLUnknown.
type TTL struct {
	State     TTLState
	Remaining time.Duration
}

// NoExpiry returns the TTL of a persistent key.
func NoExpiry() TTL { return TTL{State: TTLPersistent} }

// ExpiresIn returns the TTL of a key expiring after d.
func ExpiresIn(d time.Duration) TTL { return TTL{State: TTLExpiring, Remaining: d} }

// TTLFromReply converts a PTTL/TTL reply into a TTL. -1 is persistent,
// -2 is missing; go-redis returns both sentinels unscaled.
func TTLFromReply(d time.Duration) TTL {
	switch {
	case d == -1:
		return NoExpiry()
	case d == -2:
		return TTL{State: TTLMissing}
	case d < 0:
		return TTL{}
	default:
		return ExpiresIn(d)
	}
}

// String renders the TTL for display. Every state renders differently.
func (t TTL) String() string {
	switch t.State {
	case TTLPersistent:
		return "no expiry"
	case TTLExpiring:
		return formatRemaining(t.Remaining)
	case TTLMissing:
		return "key does not exist"
	default:
		return "unknown"
	}
}

func formatRemaining(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Second).String()
}

// KeyMeta is the metadata shown above a key's value.
type KeyMeta struct {
	Name string
	Type TypeTag
	TTL  TTL
}

// Value is a typed key value. The set of implementations is closed: switch
// over the concrete types below.
type Value interface {
	Type() TypeTag
	// Len reports the number of elements (bytes for strings).
	Len() int
	isValue()
}

// StringValue holds the raw bytes of a string key.
type StringValue struct {
	Data []byte
}

// HashField is one field of a hash in server order.
type HashField struct {
	Field []byte
	Value []byte
}

// HashValue holds hash fields in the order the server returned them.
type HashValue struct {
	Fields []HashField
}

// ListValue holds list elements in list order.
type ListValue struct {
	Items [][]byte
}

// SetValue holds set members in the order received.
type SetValue struct {
	Members [][]byte
}

// ScoredMember is one sorted set entry.
type ScoredMember struct {
	Member []byte
	Score  float64
}

// SortedSetValue holds sorted set entries as received; ordering for display
// is the renderer's job.
type SortedSetValue struct {
	Entries []ScoredMember
}

func (StringValue) Type() TypeTag    { return TypeString }
func (HashValue) Type() TypeTag      { return TypeHash }
func (ListValue) Type() TypeTag      { return TypeList }
func (SetValue) Type() TypeTag       { return TypeSet }
func (SortedSetValue) Type() TypeTag { return TypeSortedSet }

func (v StringValue) Len() int    { return len(v.Data) }
func (v HashValue) Len() int      { return len(v.Fields) }
func (v ListValue) Len() int      { return len(v.Items) }
func (v SetValue) Len() int       { return len(v.Members) }
func (v SortedSetValue) Len() int { return len(v.Entries) }

func (StringValue) isValue()    {}
func (HashValue) isValue()      {}
func (ListValue) isValue()      {}
func (SetValue) isValue()       {}
func (SortedSetValue) isValue() {}

// Detail bundles everything the detail pane shows for one key.
type Detail struct {
	Meta  KeyMeta
	Value Value
}

// Store is the read-only capability the browser needs from the server.
type Store interface {
	ListKeys(ctx context.Context) ([]string, error)
	KeyType(ctx context.Context, key string) (TypeTag, error)
	TTL(ctx context.Context, key string) (TTL, error)
	ReadValue(ctx context.Context, key string, tag TypeTag) (Value, error)
}

// Describe fetches type, TTL and value for key. A TTL reply saying the key
// is gone is reported as ErrNotFound.
func Describe(ctx context.Context, s Store, key string) (Detail, error) {
	tag, err := s.KeyType(ctx, key)
	if err != nil {
		return Detail{}, fmt.Errorf("type of %q: %w", key, err)
	}
	ttl, err := s.TTL(ctx, key)
	if err != nil {
		return Detail{}, fmt.Errorf("ttl of %q: %w", key, err)
	}
	if ttl.State == TTLMissing {
		return Detail{}, fmt.Errorf("ttl of %q: %w", key, ErrNotFound)
	}
	val, err := s.ReadValue(ctx, key, tag)
	if err != nil {
		return Detail{}, fmt.Errorf("read %s %q: %w", tag, key, err)
	}
	if val.Type() != tag {
		return Detail{}, fmt.Errorf("read %s %q: %w: got %s", tag, key, ErrTypeMismatch, val.Type())
	}
	return Detail{Meta: KeyMeta{Name: key, Type: tag, TTL: ttl}, Value: val}, nil
}
