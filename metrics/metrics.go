package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Player store metrics
	PlayerWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_player_writes_total",
		Help: "The total number of player record upserts",
	})
	PlayerDeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_player_deletes_total",
		Help: "The total number of player record deletions",
	})
	StorageErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_storage_errors_total",
		Help: "The total number of database read or write failures",
	})

	// Invasion metrics
	InvasionsAttemptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_invasions_attempted_total",
		Help: "The total number of invasion requests that passed validation",
	})
	InvasionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_invasions_rejected_total",
		Help: "The total number of invasion requests rejected during validation",
	})
	InvasionVictoriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_invasion_victories_total",
		Help: "The total number of invasions won by the attacker",
	})
	InvasionDurations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dominion_invasion_duration_seconds",
		Help:    "Latency of invasion resolution including persistence",
		Buckets: prometheus.DefBuckets,
	})

	// Leaderboard cache metrics
	LeaderboardCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_leaderboard_cache_hits_total",
		Help: "The total number of leaderboard pages served from Redis",
	})
	LeaderboardCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dominion_leaderboard_cache_misses_total",
		Help: "The total number of leaderboard pages computed from the database",
	})
)
