package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PlaceKeyPrefix        = "place:%d"
	PlaceReviewsPrefix    = "place:%d:reviews"
	PendingAppealsKey     = "appeals:pending"
	ModerationQueuePrefix = "moderation:queue:%s"
)

const (
	UserTTL         = 5 * time.Minute
	PlaceTTL        = 10 * time.Minute
	PlaceReviewsTTL = 2 * time.Minute
	PendingTTL      = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PlaceKey(placeID uint) string {
	return fmt.Sprintf(PlaceKeyPrefix, placeID)
}

func PlaceReviewsKey(placeID uint) string {
	return fmt.Sprintf(PlaceReviewsPrefix, placeID)
}

func ModerationQueueKey(action string) string {
	return fmt.Sprintf(ModerationQueuePrefix, action)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePlace(ctx context.Context, placeID uint) {
	Invalidate(ctx, PlaceKey(placeID))
	Invalidate(ctx, PlaceReviewsKey(placeID))
}

func InvalidatePendingAppeals(ctx context.Context) {
	Invalidate(ctx, PendingAppealsKey)
}
