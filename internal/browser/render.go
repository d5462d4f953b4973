package browser

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/oakwood-commons/redkv/internal/store"
)

// DisplayBlock is the structured, printable form of a value. Text holds the
// lines of a string value; Columns and Rows hold every collection type.
type DisplayBlock struct {
	Type    store.TypeTag
	Summary string
	Text    []string
	Columns []string
	Rows    [][]string
}

// IsTable reports whether the block is laid out as rows.
func (d DisplayBlock) IsTable() bool { return d.Columns != nil }

// Render converts v into a DisplayBlock.
func Render(v store.Value) DisplayBlock {
	switch val := v.(type) {
	case store.StringValue:
		return renderString(val)
	case store.HashValue:
		rows := make([][]string, 0, len(val.Fields))
		for _, f := range val.Fields {
			rows = append(rows, []string{EscapeBytes(f.Field), EscapeBytes(f.Value)})
		}
		return DisplayBlock{
			Type:    store.TypeHash,
			Summary: countSummary(store.TypeHash, len(rows), "field"),
			Columns: []string{"FIELD", "VALUE"},
			Rows:    rows,
		}
	case store.ListValue:
		rows := make([][]string, 0, len(val.Items))
		for i, item := range val.Items {
			rows = append(rows, []string{strconv.Itoa(i), EscapeBytes(item)})
		}
		return DisplayBlock{
			Type:    store.TypeList,
			Summary: countSummary(store.TypeList, len(rows), "item"),
			Columns: []string{"#", "VALUE"},
			Rows:    rows,
		}
	case store.SetValue:
		rows := make([][]string, 0, len(val.Members))
		for _, m := range val.Members {
			rows = append(rows, []string{EscapeBytes(m)})
		}
		return DisplayBlock{
			Type:    store.TypeSet,
			Summary: countSummary(store.TypeSet, len(rows), "member"),
			Columns: []string{"MEMBER"},
			Rows:    rows,
		}
	case store.SortedSetValue:
		entries := SortScored(val.Entries)
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{EscapeBytes(e.Member), FormatScore(e.Score)})
		}
		return DisplayBlock{
			Type:    store.TypeSortedSet,
			Summary: countSummary(store.TypeSortedSet, len(rows), "member"),
			Columns: []string{"MEMBER", "SCORE"},
			Rows:    rows,
		}
	default:
		panic(fmt.Sprintf("browser: unhandled value type %T", v))
	}
}

// RenderAs renders v after checking it has the shape tag announces.
func RenderAs(tag store.TypeTag, v store.Value) (DisplayBlock, error) {
	if v == nil {
		return DisplayBlock{}, fmt.Errorf("%w: nil value for %s", store.ErrTypeMismatch, tag)
	}
	if v.Type() != tag {
		return DisplayBlock{}, fmt.Errorf("%w: %s value for %s key", store.ErrTypeMismatch, v.Type(), tag)
	}
	return Render(v), nil
}

func renderString(v store.StringValue) DisplayBlock {
	parts := bytes.Split(v.Data, []byte{'\n'})
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = EscapeBytes(p)
	}
	return DisplayBlock{
		Type:    store.TypeString,
		Summary: countSummary(store.TypeString, len(v.Data), "byte"),
		Text:    lines,
	}
}

// SortScored returns a copy of entries ordered by score, then member bytes.
func SortScored(entries []store.ScoredMember) []store.ScoredMember {
	out := make([]store.ScoredMember, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return bytes.Compare(out[i].Member, out[j].Member) < 0
	})
	return out
}

// FormatScore prints a score the way the server does.
func FormatScore(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func countSummary(tag store.TypeTag, n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%s, %d %s", tag, n, noun)
}
