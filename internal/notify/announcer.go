// Package notify delivers fire-and-forget announcements of XP awards.
// The contract with the progression services: exactly one announcement per
// toggle-to-true or first lesson completion, never on the request path's
// critical section, and a delivery failure never fails the request.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// XPAward is the payload published whenever a user earns XP.
type XPAward struct {
	UserID uint   `json:"userId"`
	Amount int    `json:"amount"`
	Source string `json:"source"` // "lesson" | "habit"
	RefID  string `json:"refId"`
	Day    string `json:"day"`
}

// Announcer fans an XP award out to whoever listens.
type Announcer interface {
	AnnounceXP(award XPAward)
}

const xpChannel = "catalyst:xp_awards"

// RedisAnnouncer publishes awards on a redis channel and, when configured,
// mirrors them to an automation webhook.
type RedisAnnouncer struct {
	rdb        *redis.Client
	webhookURL string
	client     *http.Client
}

func NewRedisAnnouncer(rdb *redis.Client, webhookURL string) *RedisAnnouncer {
	return &RedisAnnouncer{
		rdb:        rdb,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (a *RedisAnnouncer) AnnounceXP(award XPAward) {
	go a.deliver(award)
}

func (a *RedisAnnouncer) deliver(award XPAward) {
	payload, err := json.Marshal(award)
	if err != nil {
		logger.Log.Error("marshal xp award", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.rdb != nil {
		if err := a.rdb.Publish(ctx, xpChannel, payload).Err(); err != nil {
			logger.Log.Warn("publish xp award", zap.Error(err), zap.Uint("userId", award.UserID))
		}
	}

	if a.webhookURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(payload))
		if err != nil {
			logger.Log.Warn("build xp webhook request", zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := a.client.Do(req)
		if err != nil {
			logger.Log.Warn("post xp webhook", zap.Error(err))
			return
		}
		resp.Body.Close()
	}
}

// NopAnnouncer is used in tests and when notifications are disabled.
type NopAnnouncer struct{}

func (NopAnnouncer) AnnounceXP(XPAward) {}
