package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckLaneText(t *testing.T) {
	tests := []struct {
		name  string
		value string
		opts  LaneTextOptions
		valid bool
	}{
		{"empty pattern field", "", LaneTextOptions{MaxLength: 3, AllowWildcard: true}, true},
		{"partial pattern", "1*", LaneTextOptions{MaxLength: 3, AllowWildcard: true}, true},
		{"many wildcards", "****", LaneTextOptions{MaxLength: 4, AllowWildcard: true}, true},
		{"too long", "1234", LaneTextOptions{MaxLength: 3, AllowWildcard: true}, false},
		{"zero lane", "0", LaneTextOptions{AllowWildcard: true}, false},
		{"wildcard refused", "1*", LaneTextOptions{MaxLength: 7}, false},
		{"repeated digit", "1231", LaneTextOptions{MaxLength: 7}, false},
		{"full ticket", "3142576", LaneTextOptions{MaxLength: 7, RequireFullLength: true}, true},
		{"short ticket", "314257", LaneTextOptions{MaxLength: 7, RequireFullLength: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLaneText(tt.value, tt.opts)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
