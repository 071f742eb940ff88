package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/service"
)

const jsonHeader = "Content-Type: application/json"

// importTickets posts a raw payload and requires it to be accepted.
func (ts *testServer) importTickets(t *testing.T, mode, payload string) domain.ImportBatch {
	t.Helper()
	path := "/api/v1/tickets/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	resp := ts.api.Post(path, jsonHeader, strings.NewReader(payload))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeEnvelope[domain.ImportBatch](t, resp).Data
}

const sampleTickets = `[
  {"laneText": "1234567", "expiration": "2026/10/31"},
  {"laneText": "7654321"},
  {"laneText": "3456712"},
  {"laneText": "1734562"},
  {"laneText": "1234567"}
]`

func laneTexts(views []service.TicketView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.LaneText
	}
	return out
}

func TestImportTickets(t *testing.T) {
	ts := setupTestServer(t, Options{})

	batch := ts.importTickets(t, "", sampleTickets)
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, domain.ImportReplace, batch.Mode)
	assert.Equal(t, 5, batch.TicketCount)

	batch = ts.importTickets(t, "append", `[{"laneText": "２１３４５６７"}]`)
	assert.Equal(t, domain.ImportAppend, batch.Mode)

	resp := ts.api.Get("/api/v1/tickets")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[service.TicketPage](t, resp).Data
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, "2134567", page.Items[5].LaneText, "full-width digits are folded")

	ts.importTickets(t, "replace", `[{"laneText": "7123456"}]`)
	resp = ts.api.Get("/api/v1/tickets")
	page = decodeEnvelope[service.TicketPage](t, resp).Data
	assert.Equal(t, 1, page.Total)
}

func TestImportTickets_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name     string
		mode     string
		payload  string
		wantCode string
		wantKind string
	}{
		{"invalid json", "", `[{"laneText": "1234567"`, "INVALID_INPUT", "invalid_json"},
		{"not an array", "", `{"laneText": "1234567"}`, "INVALID_INPUT", "not_array"},
		{"invalid ticket", "", `[{"laneText": "1234567"}, {"laneText": "12"}]`, "VALIDATION", ""},
		{"unknown mode", "merge", `[{"laneText": "1234567"}]`, "VALIDATION", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/api/v1/tickets/import"
			if tt.mode != "" {
				path += "?mode=" + tt.mode
			}
			resp := ts.api.Post(path, jsonHeader, strings.NewReader(tt.payload))
			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

			env := decodeEnvelope[any](t, resp)
			assert.Equal(t, tt.wantCode, env.Code)
			if tt.wantKind != "" {
				assert.JSONEq(t, `{"kind": "`+tt.wantKind+`"}`, string(env.Details))
			}
		})
	}

	// Nothing was stored by the rejected imports.
	resp := ts.api.Get("/api/v1/tickets")
	assert.Zero(t, decodeEnvelope[service.TicketPage](t, resp).Data.Total)
}

func TestListTickets_ColorsAndPaging(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.importTickets(t, "", sampleTickets)

	resp := ts.api.Get("/api/v1/tickets?side=1P&limit=2&offset=1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page := decodeEnvelope[service.TicketPage](t, resp).Data
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 1, page.Offset)
	assert.Equal(t, []string{"7654321", "3456712"}, laneTexts(page.Items))
	assert.Equal(t, domain.HighlightSilver, page.Items[0].Color)
	assert.Equal(t, domain.HighlightNone, page.Items[1].Color)

	resp = ts.api.Get("/api/v1/tickets?side=2P&limit=1")
	page = decodeEnvelope[service.TicketPage](t, resp).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2026/10/31", page.Items[0].Expiration)
	assert.Equal(t, domain.HighlightSilver, page.Items[0].Color, "1234567 hits r-7 on 2P")

	resp = ts.api.Get("/api/v1/tickets?side=left")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGroupTickets(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.importTickets(t, "", sampleTickets)

	resp := ts.api.Get("/api/v1/tickets/groups")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	groups := decodeEnvelope[TicketGroupsResponse](t, resp).Data
	assert.Equal(t, 5, groups.Total)
	require.Len(t, groups.Groups, 4)
	assert.Equal(t, "1234567", groups.Groups[0].LaneText)
	assert.Equal(t, 2, groups.Groups[0].Count)
	assert.Equal(t, domain.HighlightGold, groups.Groups[0].Color)
}

func TestFilterTickets(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.importTickets(t, "", sampleTickets)

	tests := []struct {
		name      string
		body      map[string]any
		want      []string
		wantRules int
	}{
		{
			name: "empty pattern keeps everything",
			body: map[string]any{},
			want: []string{"1234567", "7654321", "3456712", "1734562", "1234567"},
		},
		{
			name: "scratch side holds lane 1",
			body: map[string]any{"pattern": map[string]any{"scratchSideText": "1"}},
			want: []string{"1234567", "1734562", "1234567"},
		},
		{
			name: "ordered scratch side",
			body: map[string]any{"pattern": map[string]any{"scratchSideText": "76", "isScratchSideUnordered": false}},
			want: []string{"7654321"},
		},
		{
			name: "recommend narrows to chart hits",
			body: map[string]any{
				"mode":  "recommend",
				"chart": map[string]string{"songId": "song-b", "difficulty": "sph"},
			},
			want:      []string{"7654321"},
			wantRules: 1,
		},
		{
			name: "all mode returns chart rules without narrowing",
			body: map[string]any{
				"mode":    "all",
				"pattern": map[string]any{"nonScratchSideText": "4"},
				"chart":   map[string]string{"songId": "song-a", "difficulty": "spa"},
			},
			want:      []string{"1234567", "7654321", "1734562", "1234567"},
			wantRules: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/tickets/filter", tt.body)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			res := decodeEnvelope[service.FilterResult](t, resp).Data
			assert.Equal(t, tt.want, laneTexts(res.Tickets))
			assert.Len(t, res.ChartRules, tt.wantRules)
		})
	}
}

func TestFilterTickets_Invalid(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad lanes", map[string]any{"pattern": map[string]any{"scratchSideText": "9"}}},
		{"too long", map[string]any{"pattern": map[string]any{"nonScratchSideText": "12345"}}},
		{"bad mode", map[string]any{"mode": "best"}},
		{"bad chart difficulty", map[string]any{"chart": map[string]string{"songId": "song-a", "difficulty": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/tickets/filter", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestClearTickets(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.importTickets(t, "", sampleTickets)

	resp := ts.api.Delete("/api/v1/tickets")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 5, decodeEnvelope[ClearTicketsResponse](t, resp).Data.Deleted)

	resp = ts.api.Get("/api/v1/tickets")
	assert.Zero(t, decodeEnvelope[service.TicketPage](t, resp).Data.Total)
}
