package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     string
		sessionKey string
		wantKey    string
		anonymous  bool
	}{
		{"registered", "u-1", "", "user:u-1", false},
		{"registered ignores session", "u-1", "tab-9", "user:u-1", false},
		{"empty id", "", "", "anon:anonymous-user", true},
		{"marker", AnonymousMarker, "", "anon:anonymous-user", true},
		{"marker with session", AnonymousMarker, "tab-9", "anon:tab-9", true},
		{"blank session", "  ", "   ", "anon:anonymous-user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ParseIdentity(tt.userID, tt.sessionKey)
			assert.Equal(t, tt.wantKey, id.Key())
			assert.Equal(t, tt.anonymous, id.IsAnonymous())
			if tt.anonymous {
				assert.Nil(t, id.UserID())
			} else {
				assert.Equal(t, tt.userID, *id.UserID())
			}
		})
	}
}

func TestEnumsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ProviderQwen.Valid())
	assert.False(t, AIProvider("Bard").Valid())
	assert.True(t, ErrorPerfunctory.Valid())
	assert.False(t, ErrorType("typo").Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, DialogRole("system").Valid())
}

func TestCounterColumnWhitelist(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "whip_count", CounterWhip.Column())
	assert.Equal(t, "", Counter("comment_count; DROP TABLE cases").Column())
	assert.Equal(t, "", Counter("like_count").Column(), "like and comment counters change only with their rows")
}

func TestNewStatisticsHasEveryKey(t *testing.T) {
	t.Parallel()

	s := NewStatistics()
	assert.Len(t, s.CasesByProvider, len(AIProviders))
	assert.Len(t, s.CasesByErrorType, len(ErrorTypes))
	assert.Zero(t, s.CasesByProvider[ProviderUnknown])
}
