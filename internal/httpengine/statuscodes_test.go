package httpengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchStatusCode(t *testing.T) {
	cases := []struct {
		name        string
		statusCodes string
		code        int
		want        bool
	}{
		{"empty matches anything", "", 404, true},
		{"single code match", "200", 200, true},
		{"single code mismatch", "200", 201, false},
		{"range match", "200-299", 204, true},
		{"range mismatch", "200-299", 404, false},
		{"list of ranges", "200-299,304,401-403", 304, true},
		{"list of ranges mismatch", "200-299,304,401-403", 500, false},
		{"malformed range ignored", "abc,200", 200, true},
		{"malformed range ignored and mismatch", "abc", 200, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchStatusCode(tc.statusCodes, tc.code))
		})
	}
}
