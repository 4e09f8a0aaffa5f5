package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empire-server/internal/shared/clock"
)

func TestMissionDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name    string
		mission Mission
		due     bool
	}{
		{
			name:    "outbound past arrival",
			mission: Mission{State: StateOutbound, ArrivesAt: past},
			due:     true,
		},
		{
			name:    "outbound arrival exactly now",
			mission: Mission{State: StateOutbound, ArrivesAt: now},
			due:     true,
		},
		{
			name:    "outbound still in transit",
			mission: Mission{State: StateOutbound, ArrivesAt: future},
			due:     false,
		},
		{
			name:    "outbound already processed",
			mission: Mission{State: StateOutbound, ArrivesAt: past, Processed: true},
			due:     false,
		},
		{
			name:    "returning past return time",
			mission: Mission{State: StateReturning, ReturnsAt: &past},
			due:     true,
		},
		{
			name:    "returning still in transit",
			mission: Mission{State: StateReturning, ReturnsAt: &future},
			due:     false,
		},
		{
			name:    "returning without return time",
			mission: Mission{State: StateReturning},
			due:     false,
		},
		{
			name:    "completed",
			mission: Mission{State: StateCompleted, ArrivesAt: past},
			due:     false,
		},
		{
			name:    "destroyed",
			mission: Mission{State: StateDestroyed, ArrivesAt: past},
			due:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, missionDue(tt.mission, now))
		})
	}
}

func TestResolveArrivalSkipsMissionsNotDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Service{clock: clock.Fixed{T: now}}

	tests := []struct {
		name    string
		mission Mission
	}{
		{
			name:    "still outbound",
			mission: Mission{ID: 1, State: StateOutbound, ArrivesAt: now.Add(time.Hour)},
		},
		{
			name:    "already processed",
			mission: Mission{ID: 2, State: StateOutbound, ArrivesAt: now.Add(-time.Hour), Processed: true},
		},
		{
			name:    "wrong state",
			mission: Mission{ID: 3, State: StateCompleted, ArrivesAt: now.Add(-time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.ResolveArrival(context.Background(), tt.mission, now))
		})
	}
}

func TestResolveReturnSkipsMissionsNotDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	s := &Service{clock: clock.Fixed{T: now}}

	require.NoError(t, s.ResolveReturn(context.Background(), Mission{ID: 1, State: StateReturning, ReturnsAt: &future}, now))
	require.NoError(t, s.ResolveReturn(context.Background(), Mission{ID: 2, State: StateReturning}, now))
	require.NoError(t, s.ResolveReturn(context.Background(), Mission{ID: 3, State: StateOutbound, ReturnsAt: &now}, now))
}

// A mission with no due transition must come back from settlement
// untouched, without any store round trip.
func TestSettleMissionPassesThroughWhenNothingDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Service{clock: clock.Fixed{T: now}}

	tests := []struct {
		name    string
		mission Mission
	}{
		{
			name:    "outbound not yet arrived",
			mission: Mission{ID: 10, State: StateOutbound, ArrivesAt: now.Add(30 * time.Minute)},
		},
		{
			name:    "completed",
			mission: Mission{ID: 11, State: StateCompleted, ArrivesAt: now.Add(-time.Hour)},
		},
		{
			name:    "destroyed",
			mission: Mission{ID: 12, State: StateDestroyed, ArrivesAt: now.Add(-time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.settleMission(context.Background(), tt.mission)
			require.NoError(t, err)
			assert.Equal(t, tt.mission, *got)
		})
	}
}
