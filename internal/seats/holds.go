package seats

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"boletera/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Holds tracks short-lived seat selections made while a cart is being
// built. A hold does not change the seat row in Postgres; it only makes
// the seat show as taken to other sessions until the TTL lapses or the
// session checks out.
type Holds interface {
	// HoldSeat places a selection hold for the session. Fails when
	// another session already holds the seat.
	HoldSeat(ctx context.Context, seatID uuid.UUID, sessionID string, ttl time.Duration) error

	// ReleaseSeat drops the hold if the session owns it.
	ReleaseSeat(ctx context.Context, seatID uuid.UUID, sessionID string) error

	// ReleaseSession drops every hold the session owns. Returns the
	// number released.
	ReleaseSession(ctx context.Context, sessionID string) (int, error)

	// HeldSeats reports which of the given seats carry a hold owned by a
	// different session.
	HeldSeats(ctx context.Context, seatIDs []uuid.UUID, sessionID string) (map[uuid.UUID]bool, error)
}

// Selection holds are multi-key operations (seat key plus the session's
// set), so each mutation runs as a Lua script to stay atomic under
// concurrent selections of the same seat.
const luaHoldSeat = `
-- KEYS[1] = seat hold key
-- KEYS[2] = session seats key
-- ARGV[1] = session_id
-- ARGV[2] = seat_id
-- ARGV[3] = ttl_seconds

local owner = redis.call("GET", KEYS[1])
if owner and owner ~= ARGV[1] then
    return {0, owner}
end

redis.call("SETEX", KEYS[1], tonumber(ARGV[3]), ARGV[1])
redis.call("SADD", KEYS[2], ARGV[2])
redis.call("EXPIRE", KEYS[2], tonumber(ARGV[3]))
return {1, "ok"}
`

const luaReleaseSeat = `
-- KEYS[1] = seat hold key
-- KEYS[2] = session seats key
-- ARGV[1] = session_id
-- ARGV[2] = seat_id

local owner = redis.call("GET", KEYS[1])
if owner ~= ARGV[1] then
    return 0
end

redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[2])
return 1
`

const luaReleaseSession = `
-- KEYS[1] = session seats key
-- ARGV[1] = session_id
-- ARGV[2] = seat hold key prefix

local seat_ids = redis.call("SMEMBERS", KEYS[1])
local released = 0
for i = 1, #seat_ids do
    local seat_key = ARGV[2] .. seat_ids[i]
    if redis.call("GET", seat_key) == ARGV[1] then
        redis.call("DEL", seat_key)
        released = released + 1
    end
end
redis.call("DEL", KEYS[1])
return released
`

type redisHolds struct {
	redis         *redis.Client
	holdScript    *redis.Script
	releaseScript *redis.Script
	sessionScript *redis.Script
}

func NewRedisHolds(client *redis.Client) Holds {
	return &redisHolds{
		redis:         client,
		holdScript:    redis.NewScript(luaHoldSeat),
		releaseScript: redis.NewScript(luaReleaseSeat),
		sessionScript: redis.NewScript(luaReleaseSession),
	}
}

func seatHoldKey(seatID uuid.UUID) string {
	return constants.KEY_SEAT_SELECTION + seatID.String()
}

func sessionSeatsKey(sessionID string) string {
	return constants.KEY_SESSION_SEATS + sessionID
}

func (h *redisHolds) HoldSeat(ctx context.Context, seatID uuid.UUID, sessionID string, ttl time.Duration) error {
	keys := []string{seatHoldKey(seatID), sessionSeatsKey(sessionID)}
	args := []interface{}{sessionID, seatID.String(), strconv.Itoa(int(ttl.Seconds()))}

	result, err := h.holdScript.Run(ctx, h.redis, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("failed to place seat hold: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from hold script")
	}

	if success, _ := resultArray[0].(int64); success == 0 {
		return fmt.Errorf("seat %s already held by another session", seatID)
	}
	return nil
}

func (h *redisHolds) ReleaseSeat(ctx context.Context, seatID uuid.UUID, sessionID string) error {
	keys := []string{seatHoldKey(seatID), sessionSeatsKey(sessionID)}
	_, err := h.releaseScript.Run(ctx, h.redis, keys, sessionID, seatID.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to release seat hold: %w", err)
	}
	return nil
}

func (h *redisHolds) ReleaseSession(ctx context.Context, sessionID string) (int, error) {
	keys := []string{sessionSeatsKey(sessionID)}
	result, err := h.sessionScript.Run(ctx, h.redis, keys, sessionID, constants.KEY_SEAT_SELECTION).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to release session holds: %w", err)
	}

	released, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result format from release script")
	}
	return int(released), nil
}

func (h *redisHolds) HeldSeats(ctx context.Context, seatIDs []uuid.UUID, sessionID string) (map[uuid.UUID]bool, error) {
	if len(seatIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = seatHoldKey(id)
	}

	owners, err := h.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat holds: %w", err)
	}

	held := make(map[uuid.UUID]bool, len(seatIDs))
	for i, owner := range owners {
		if owner == nil {
			continue
		}
		if s, ok := owner.(string); ok && s != sessionID {
			held[seatIDs[i]] = true
		}
	}
	return held, nil
}

// memoryHolds is the test double; same ownership rules, no TTL eviction.
type memoryHolds struct {
	mu       sync.Mutex
	owners   map[uuid.UUID]string
	sessions map[string]map[uuid.UUID]struct{}
}

func NewMemoryHolds() Holds {
	return &memoryHolds{
		owners:   make(map[uuid.UUID]string),
		sessions: make(map[string]map[uuid.UUID]struct{}),
	}
}

func (h *memoryHolds) HoldSeat(ctx context.Context, seatID uuid.UUID, sessionID string, ttl time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if owner, ok := h.owners[seatID]; ok && owner != sessionID {
		return fmt.Errorf("seat %s already held by another session", seatID)
	}
	h.owners[seatID] = sessionID
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[uuid.UUID]struct{})
	}
	h.sessions[sessionID][seatID] = struct{}{}
	return nil
}

func (h *memoryHolds) ReleaseSeat(ctx context.Context, seatID uuid.UUID, sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owners[seatID] != sessionID {
		return nil
	}
	delete(h.owners, seatID)
	delete(h.sessions[sessionID], seatID)
	return nil
}

func (h *memoryHolds) ReleaseSession(ctx context.Context, sessionID string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	released := 0
	for seatID := range h.sessions[sessionID] {
		if h.owners[seatID] == sessionID {
			delete(h.owners, seatID)
			released++
		}
	}
	delete(h.sessions, sessionID)
	return released, nil
}

func (h *memoryHolds) HeldSeats(ctx context.Context, seatIDs []uuid.UUID, sessionID string) (map[uuid.UUID]bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	held := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		if owner, ok := h.owners[id]; ok && owner != sessionID {
			held[id] = true
		}
	}
	return held, nil
}
