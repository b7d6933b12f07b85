package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/testutil"
)

var cacheDay = time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC)

func TestForecastCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		key     domain.ForecastKey
		want    string
		wantErr error
	}{
		{
			name: "formats calendar day",
			key:  domain.ForecastKey{Version: "v1", Institution: "inst-a", Date: cacheDay.Add(13 * time.Hour)},
			want: "forecast:v1:inst-a:2021-07-18",
		},
		{
			name:    "missing version",
			key:     domain.ForecastKey{Institution: "inst-a", Date: cacheDay},
			wantErr: ErrInvalidForecastKey,
		},
		{
			name:    "missing date",
			key:     domain.ForecastKey{Version: "v1", Institution: "inst-a"},
			wantErr: ErrInvalidForecastKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForecastCacheKey(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got key %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForecastCacheGetSet(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	cache := NewForecastCache(client, time.Minute)
	key := domain.ForecastKey{Version: "v1", Institution: "inst-a", Date: cacheDay}

	if _, found, err := cache.Get(ctx, key); err != nil || found {
		t.Fatalf("Get before Set = found %v, err %v; want miss", found, err)
	}

	if err := cache.Set(ctx, key, 17); err != nil {
		t.Fatalf("Set: %v", err)
	}

	demand, found, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || demand != 17 {
		t.Errorf("Get = %d, %v; want 17, true", demand, found)
	}

	ttl, err := client.TTL(ctx, "forecast:v1:inst-a:2021-07-18").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %s, want within (0, 1m]", ttl)
	}

	other := key
	other.Version = "v2"
	if _, found, err := cache.Get(ctx, other); err != nil || found {
		t.Errorf("Get for another model version = found %v, err %v; want miss", found, err)
	}
}

func TestForecastCacheGetCorruptData(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	if err := client.Set(ctx, "forecast:v1:inst-a:2021-07-18", "not-json", 0).Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	cache := NewForecastCache(client, 0)
	_, _, err := cache.Get(ctx, domain.ForecastKey{Version: "v1", Institution: "inst-a", Date: cacheDay})
	if !errors.Is(err, ErrInvalidForecastData) {
		t.Errorf("got error %v, want ErrInvalidForecastData", err)
	}
}
