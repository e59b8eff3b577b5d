// Package storage holds the optional redis presence mirror. The in-process
// registry is authoritative; the mirror only writes transitions through so
// services outside this process can observe who is online.
package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"relaykit/tools/errs"
)

type PresenceConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL bounds how long an online key survives without renewal, so a
	// crashed relay does not leave users online forever. Default 2m.
	TTL time.Duration

	// KeyPrefix defaults to "relay:presence:".
	KeyPrefix string
}

func (c *PresenceConfig) norm() {
	if c.TTL <= 0 {
		c.TTL = 2 * time.Minute
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "relay:presence:"
	}
}

type PresenceMirror struct {
	rdb  *redis.Client
	conf PresenceConfig
}

// NewPresenceMirror connects and pings the redis backend.
func NewPresenceMirror(conf PresenceConfig) (*PresenceMirror, error) {
	conf.norm()
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errs.WrapMsg(err, "ping redis "+conf.Addr)
	}
	return &PresenceMirror{rdb: rdb, conf: conf}, nil
}

func (m *PresenceMirror) key(userID string) string {
	return m.conf.KeyPrefix + userID
}

// Online marks userID online, renewing the TTL.
func (m *PresenceMirror) Online(ctx context.Context, userID string) error {
	return errs.Wrap(m.rdb.Set(ctx, m.key(userID), "1", m.conf.TTL).Err())
}

// Offline deletes the online key.
func (m *PresenceMirror) Offline(ctx context.Context, userID string) error {
	return errs.Wrap(m.rdb.Del(ctx, m.key(userID)).Err())
}

// Lookup reports whether userID is marked online in the mirror.
func (m *PresenceMirror) Lookup(ctx context.Context, userID string) (bool, error) {
	_, err := m.rdb.Get(ctx, m.key(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errs.Wrap(err)
	}
	return true, nil
}

func (m *PresenceMirror) Close() error {
	return m.rdb.Close()
}
