package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindow_Allow(t *testing.T) {
	ctx := context.Background()
	key := keyPrefix + "registrations:10.0.0.1"

	tests := []struct {
		name      string
		mock      func(mock redismock.ClientMock)
		wantAllow bool
		wantErr   bool
	}{
		{
			name: "first hit sets the window",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(1)
				mock.ExpectTTL(key).SetVal(-1)
				mock.ExpectExpire(key, time.Minute).SetVal(true)
			},
			wantAllow: true,
		},
		{
			name: "at the limit",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(3)
				mock.ExpectTTL(key).SetVal(40 * time.Second)
			},
			wantAllow: true,
		},
		{
			name: "over the limit",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(4)
				mock.ExpectTTL(key).SetVal(40 * time.Second)
			},
			wantAllow: false,
		},
		{
			name: "key left without ttl is re-armed",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(7)
				mock.ExpectTTL(key).SetVal(-1)
				mock.ExpectExpire(key, time.Minute).SetVal(true)
			},
			wantAllow: false,
		},
		{
			name: "incr failure",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "expire failure",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(1)
				mock.ExpectTTL(key).SetVal(-1)
				mock.ExpectExpire(key, time.Minute).SetErr(errors.New("readonly"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.mock(mock)

			allowed, err := NewFixedWindow(client, 3, time.Minute).Allow(ctx, "registrations:10.0.0.1")
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, allowed)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAllow, allowed)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFixedWindow_RecoversFromFailedExpire(t *testing.T) {
	ctx := context.Background()
	key := keyPrefix + "registrations:10.0.0.1"
	client, mock := redismock.NewClientMock()
	limiter := NewFixedWindow(client, 3, time.Minute)

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectTTL(key).SetVal(-1)
	mock.ExpectExpire(key, time.Minute).SetErr(errors.New("readonly"))
	_, err := limiter.Allow(ctx, "registrations:10.0.0.1")
	require.Error(t, err)

	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectTTL(key).SetVal(-1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	allowed, err := limiter.Allow(ctx, "registrations:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectTTL(key).SetVal(59 * time.Second)
	allowed, err = limiter.Allow(ctx, "registrations:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
