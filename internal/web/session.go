package web

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// pendingCityKey is the session key holding the staged city name.
const pendingCityKey = "city"

// errEmptyCity guards the staging invariant: an empty or whitespace-only
// value must never reach the session.
var errEmptyCity = errors.New("pending city must be a non-empty trimmed string")

// PendingStore stages the city name submitted on the entry page for the
// result page to consume. It is an explicit dependency handed to the
// handlers; nothing else touches the underlying session.
//
// The staged value lives for the browsing session (cookie-scoped, in-memory
// server side) and is read, not cleared, by the result page so that
// re-activating it re-runs the same lookup.
type PendingStore struct {
	sessions *session.Store
}

// NewPendingStore creates a session-backed PendingStore with the given TTL.
func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		sessions: session.New(session.Config{
			Expiration:     ttl,
			KeyGenerator:   uuid.NewString,
			CookieHTTPOnly: true,
		}),
	}
}

// StageCity trims and stores the city name in the caller's session.
// Exactly one session write per successful call; an empty-after-trim value
// is rejected and nothing is written.
func (s *PendingStore) StageCity(c *fiber.Ctx, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errEmptyCity
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	sess.Set(pendingCityKey, city)
	return sess.Save()
}

// PendingCity returns the staged city name, or "" when nothing is staged.
func (s *PendingStore) PendingCity(c *fiber.Ctx) (string, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return "", err
	}

	city, _ := sess.Get(pendingCityKey).(string)
	return city, nil
}
