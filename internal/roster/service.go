package roster

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
)

var (
	// ErrNotRegistered means the acting user has no entry in the chat roster.
	ErrNotRegistered = errors.New("user not registered")
	// ErrNotAuthorized means the acting user exists but lacks the admin flag.
	// It is a user-visible condition, not a system failure.
	ErrNotAuthorized = errors.New("user not authorized")
	// ErrTargetNotFound means the nickname target has no roster entry.
	ErrTargetNotFound = errors.New("target user not found")
)

// Service owns the in-memory registry and serializes every mutation behind a
// single mutex. Each mutation is written through to the store before the call
// returns.
type Service struct {
	mu       sync.Mutex
	registry Registry
	store    *Store
	logger   *slog.Logger
}

// NewService loads the registry from the store. A malformed store file is a
// fatal startup error and is returned as-is.
func NewService(log *slog.Logger, store *Store) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	reg, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Service{
		registry: reg,
		store:    store,
		logger:   log.With(slog.String("service", "roster")),
	}, nil
}

// ChatKey normalizes a chat ID for use as a registry key.
func ChatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Observe records a user in the chat roster. Re-observing an existing user is
// a no-op: the stored first name is not refreshed and nothing is saved.
func (s *Service) Observe(chatID int64, userID int64, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ChatKey(chatID)
	for _, entry := range s.registry[key] {
		if entry.ID == userID {
			return nil
		}
	}
	s.registry[key] = append(s.registry[key], Entry{
		ID:        userID,
		FirstName: firstName,
	})
	s.logger.Info("user observed",
		slog.String("chat_id", key),
		slog.Int64("user_id", userID),
		slog.String("first_name", firstName),
	)
	return s.store.Save(s.registry)
}

// SetNickname assigns a nickname to the target user. The acting user must be
// registered in the same chat and carry the admin flag.
func (s *Service) SetNickname(chatID int64, actingID, targetID int64, nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ChatKey(chatID)
	entries := s.registry[key]
	var acting *Entry
	for i := range entries {
		if entries[i].ID == actingID {
			acting = &entries[i]
			break
		}
	}
	if acting == nil {
		return ErrNotRegistered
	}
	if !acting.IsAdmin {
		return ErrNotAuthorized
	}
	for i := range entries {
		if entries[i].ID == targetID {
			entries[i].Nickname = nickname
			s.logger.Info("nickname set",
				slog.String("chat_id", key),
				slog.Int64("target_id", targetID),
				slog.String("nickname", nickname),
			)
			return s.store.Save(s.registry)
		}
	}
	return ErrTargetNotFound
}

// SetAdmin flips the admin flag for a registered user. This is the only code
// path that grants the flag; it is driven by the admin CLI, never by chat
// commands.
func (s *Service) SetAdmin(chatID int64, userID int64, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ChatKey(chatID)
	entries := s.registry[key]
	for i := range entries {
		if entries[i].ID == userID {
			entries[i].IsAdmin = IntBool(isAdmin)
			s.logger.Info("admin flag updated",
				slog.String("chat_id", key),
				slog.Int64("user_id", userID),
				slog.Bool("is_admin", isAdmin),
			)
			return s.store.Save(s.registry)
		}
	}
	return ErrTargetNotFound
}

// NameFetcher resolves a display name from the chat platform when the roster
// has none stored.
type NameFetcher func(ctx context.Context, userID int64) (string, error)

// ResolveDisplayName returns the nickname when set, else the stored first
// name, else fetches the name from the platform, persists it, and returns it.
func (s *Service) ResolveDisplayName(ctx context.Context, chatID int64, userID int64, fetch NameFetcher) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ChatKey(chatID)
	entries := s.registry[key]
	for i := range entries {
		if entries[i].ID != userID {
			continue
		}
		if name := entries[i].DisplayName(); name != "" {
			return name, nil
		}
		name, err := fetch(ctx, userID)
		if err != nil {
			return "", err
		}
		entries[i].FirstName = name
		if err := s.store.Save(s.registry); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", ErrTargetNotFound
}

// Snapshot returns a copy of the chat roster in stored order.
func (s *Service) Snapshot(chatID int64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.registry[ChatKey(chatID)]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Size returns the number of tracked members in a chat.
func (s *Service) Size(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.registry[ChatKey(chatID)])
}
