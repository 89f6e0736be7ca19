package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values for boletera.
// Pattern: boletera:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour // very stable data
	TTL_STATIC_MEDIUM = 12 * time.Hour // venue/zone geometry

	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // event details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // event listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // upcoming events

	TTL_DYNAMIC_SHORT = 5 * time.Minute // zone seat maps
	TTL_DYNAMIC_QUICK = 2 * time.Minute // seat availability

	TTL_REALTIME_SHORT = 30 * time.Second // live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "boletera"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== ZONES MODULE ==================

const (
	CACHE_KEY_ZONES_BY_EVENT = CACHE_PREFIX + ":zones:by_event:uuid:" // + event-id
	CACHE_KEY_ZONE_DETAIL    = CACHE_PREFIX + ":zones:detail:uuid:"   // + zone-id
)

const (
	TTL_ZONES_BY_EVENT = TTL_STATIC_MEDIUM
	TTL_ZONE_DETAIL    = TTL_STATIC_MEDIUM
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_SEATS_BY_ZONE   = CACHE_PREFIX + ":seats:zone:uuid:"      // + zone-id
	CACHE_KEY_SEATS_AVAILABLE = CACHE_PREFIX + ":seats:available:zone:" // + zone-id
)

const (
	TTL_SEATS_BY_ZONE   = TTL_DYNAMIC_SHORT
	TTL_SEATS_AVAILABLE = TTL_REALTIME_SHORT
)

// ================== SELECTION HOLD KEYS ==================

// Selection holds are written by the Lua scripts in internal/seats, not the
// cache service; they share the prefix so one FLUSHDB clears everything.
const (
	KEY_SEAT_SELECTION = CACHE_PREFIX + ":selection:seat:"    // + seat-id
	KEY_SESSION_SEATS  = CACHE_PREFIX + ":selection:session:" // + session-id
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENTS_ALL = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_ZONES_ALL  = CACHE_PREFIX + ":zones:*"
	PATTERN_INVALIDATE_SEATS_ALL  = CACHE_PREFIX + ":seats:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildZonesByEventKey(eventID string) string {
	return CACHE_KEY_ZONES_BY_EVENT + eventID
}

func BuildSeatsByZoneKey(zoneID string) string {
	return CACHE_KEY_SEATS_BY_ZONE + zoneID
}

func BuildSeatAvailabilityKey(zoneID string) string {
	return CACHE_KEY_SEATS_AVAILABLE + zoneID
}

func BuildSeatsInvalidationPattern(zoneID string) string {
	return fmt.Sprintf("%s:seats:*%s*", CACHE_PREFIX, zoneID)
}
