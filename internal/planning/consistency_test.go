package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPresenceMatrix(t *testing.T) {
	tests := []struct {
		name     string
		declared bool
		status   SlotStatus
		want     ConsistencyLevel
	}{
		{"present during validated absence is a hard error", true, StatusAbsent, ConsistencyError},
		{"present while not scheduled is flagged", true, StatusNotScheduled, ConsistencyWarning},
		{"present while available but unchosen is flagged", true, StatusAvailable, ConsistencyWarning},
		{"present while assigned is fine", true, StatusAssigned, ConsistencyOK},
		{"present during exceptional availability is fine", true, StatusExceptional, ConsistencyOK},
		{"declaring not present never conflicts", false, StatusAbsent, ConsistencyOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckPresence(tc.declared, tc.status)
			assert.Equal(t, tc.want, got.Level)
			if tc.want != ConsistencyOK {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}
