package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceStatus_UnmarshalKeepsOrder(t *testing.T) {
	body := `{"services":{"Redis":["OK","pong"],"PostgreSQL":["Error","refused"],"Audit":["OK",""]},"last_checked":"x","timestamp":"y"}`

	var resp StatusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	require.Len(t, resp.Services, 3)
	assert.Equal(t, "Redis", resp.Services[0].Name)
	assert.Equal(t, "PostgreSQL", resp.Services[1].Name)
	assert.Equal(t, "Error", resp.Services[1].Status)
	assert.Equal(t, "refused", resp.Services[1].Details)
	assert.Equal(t, "Audit", resp.Services[2].Name)
}

func TestServiceStatus_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var s ServiceStatus
	require.NoError(t, json.Unmarshal([]byte(`{"a":["OK","1"],"b":["OK","2"],"a":["Error","3"]}`), &s))

	require.Len(t, s, 2)
	assert.Equal(t, ServiceEntry{Name: "a", Status: "Error", Details: "3"}, s[0])
	assert.Equal(t, "b", s[1].Name)
}

func TestServiceStatus_MarshalKeepsOrder(t *testing.T) {
	var s ServiceStatus
	s.Set("Zeta", StatusOK, "fine")
	s.Set("Alpha", StatusError, `bad "quote"`)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":["OK","fine"],"Alpha":["Error","bad \"quote\""]}`, string(out))
}

func TestServiceStatus_EmptyMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(StatusResponse{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"services":{}`)
}

func TestServiceStatus_RejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"array":        `["OK","x"]`,
		"short pair":   `{"a":["OK"]}`,
		"non-string":   `{"a":[1,2]}`,
		"not an array": `{"a":"OK"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var s ServiceStatus
			assert.Error(t, json.Unmarshal([]byte(body), &s))
		})
	}
}

func TestServiceStatus_AllOK(t *testing.T) {
	var s ServiceStatus
	assert.True(t, s.AllOK())
	s.Set("a", StatusOK, "")
	assert.True(t, s.AllOK())
	s.Set("b", StatusError, "")
	assert.False(t, s.AllOK())
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	for _, raw := range []string{
		"2026-10-17T09:30:00Z",
		"2026-10-17T11:30:00+02:00",
		"2026-10-17T09:30:00.000Z",
		"Sat, 17 Oct 2026 09:30:00 UTC",
		"2026-10-17 09:30:00 UTC",
		"2026-10-17T09:30:00",
	} {
		got, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}

	_, err := ParseTimestamp("")
	assert.Error(t, err)
	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 12, 345000000, time.UTC)

	got, err := ParseTimestamp(FormatTimestamp(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(got))
	assert.Equal(t, "2026-10-17 09:30:12 UTC", FormatLastChecked(now))
}
