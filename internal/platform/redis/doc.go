// Package redis provides a Redis-backed implementation of store.AvatarCache
// together with a no-op cache used when no Redis URL is configured.
package redis
