package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for BoletaMaster
// Pattern: boletamaster:{module}:{view}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Semi-static data: venue and event listings
const (
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // event listings
)

// Dynamic data: changes on every sale
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute // section availability
	TTL_DYNAMIC_QUICK = 2 * time.Minute // admin reports
)

// Real-time sensitive data
const (
	TTL_REALTIME_SHORT = 30 * time.Second // marketplace listings
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "boletamaster"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST         = CACHE_PREFIX + ":events:list"               // + :status:X
	CACHE_KEY_EVENT_AVAILABILITY  = CACHE_PREFIX + ":events:availability:uuid:" // + event-id
	CACHE_PATTERN_EVENTS_ALL      = CACHE_PREFIX + ":events:*"
	CACHE_PATTERN_EVENT_LISTS_ALL = CACHE_PREFIX + ":events:list*"
)

const (
	TTL_EVENT_LIST         = TTL_SEMI_STATIC_QUICK
	TTL_EVENT_AVAILABILITY = TTL_DYNAMIC_SHORT
)

// ================== MARKETPLACE MODULE ==================

const (
	CACHE_KEY_MARKET_ACTIVE_OFFERS = CACHE_PREFIX + ":marketplace:offers:active"
	CACHE_KEY_MARKET_OFFER_DETAIL  = CACHE_PREFIX + ":marketplace:offers:detail:uuid:" // + offer-id
	CACHE_PATTERN_MARKET_ALL       = CACHE_PREFIX + ":marketplace:*"
)

const (
	TTL_MARKET_ACTIVE_OFFERS = TTL_REALTIME_SHORT
	TTL_MARKET_OFFER_DETAIL  = TTL_REALTIME_SHORT
)

// ================== ADMIN MODULE ==================

const (
	CACHE_KEY_ADMIN_DAILY_SALES = CACHE_PREFIX + ":admin:reports:daily_sales:" // + yyyy-mm-dd
	CACHE_PATTERN_ADMIN_REPORTS = CACHE_PREFIX + ":admin:reports:*"
)

const (
	TTL_ADMIN_REPORTS = TTL_DYNAMIC_QUICK
)

// ================== RATE LIMIT ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== KEY BUILDERS ==================

func BuildEventListKey(status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s:status:%s", CACHE_KEY_EVENTS_LIST, status)
}

func BuildEventAvailabilityKey(eventID string) string {
	return CACHE_KEY_EVENT_AVAILABILITY + eventID
}

func BuildOfferDetailKey(offerID string) string {
	return CACHE_KEY_MARKET_OFFER_DETAIL + offerID
}

func BuildDailySalesKey(day time.Time) string {
	return CACHE_KEY_ADMIN_DAILY_SALES + day.UTC().Format("2006-01-02")
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s:%s:%s", RATE_LIMIT_PREFIX, clientIP, limitType)
}
