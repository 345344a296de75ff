// Package roster tracks per-chat membership and persists it to a single
// JSON file keyed by chat ID.
package roster

import (
	"bytes"
	"fmt"
)

// Entry is one tracked chat member. Nickname is an optional override assigned
// by an admin; it takes precedence over FirstName when rendering.
type Entry struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	Nickname  string  `json:"nickname"`
	IsAdmin   IntBool `json:"isAdmin"`
}

// DisplayName returns the nickname when set, otherwise the first name.
func (e Entry) DisplayName() string {
	if e.Nickname != "" {
		return e.Nickname
	}
	return e.FirstName
}

// Registry maps a string-normalized chat ID to its roster, in first-seen
// order. It is the single persisted aggregate.
type Registry map[string][]Entry

// IntBool is a bool stored as 0 or 1 on disk.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("0")), bytes.Equal(data, []byte("false")):
		*b = false
	case bytes.Equal(data, []byte("1")), bytes.Equal(data, []byte("true")):
		*b = true
	default:
		return fmt.Errorf("invalid isAdmin value: %s", data)
	}
	return nil
}
