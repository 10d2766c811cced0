package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts an httptest server with the given handler and
// returns a Client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL, "test-token")
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("EmptyBaseURL", func(t *testing.T) {
		_, err := New("", "tok")
		assert.Error(t, err)
	})

	t.Run("BadScheme", func(t *testing.T) {
		_, err := New("ftp://example.com", "tok")
		assert.ErrorContains(t, err, "http or https")
	})

	t.Run("Valid", func(t *testing.T) {
		c, err := New("https://mem.example.com", "tok")
		require.NoError(t, err)
		assert.Equal(t, "https://mem.example.com", c.BaseURL())
	})
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotOrg string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotOrg = r.Header.Get("X-Organization-Id")
		_ = json.NewEncoder(w).Encode(Page[Agent]{})
	}))
	defer server.Close()

	c, err := New(server.URL, "secret", WithOrganization("org-42"))
	require.NoError(t, err)

	_, err = c.ListAgents(context.Background(), "", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "org-42", gotOrg)
}

func TestAPIErrorDecoding(t *testing.T) {
	t.Run("JSONEnvelope", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"agent_not_found","detail":"no such agent"}`))
		})

		_, err := c.GetAgent(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "agent_not_found", apiErr.Code)
		assert.Equal(t, "no such agent", apiErr.Detail)
	})

	t.Run("MessageField", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"insufficient role"}`))
		})

		_, err := c.ListTokens(context.Background())
		assert.True(t, IsForbidden(err))
		assert.ErrorContains(t, err, "insufficient role")
	})

	t.Run("NonJSONBody", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream dead"))
		})

		_, err := c.ListKeywords(context.Background(), "", ListOptions{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Contains(t, apiErr.Detail, "upstream dead")
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.ListOrganizations(context.Background(), ListOptions{})
		assert.True(t, IsUnauthorized(err))
	})
}

func TestMemoryBlockQueryEncoding(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(Page[MemoryBlock]{})
	})

	q := MemoryBlockQuery{
		Search:       "postgres tuning",
		AgentID:      "agent-1",
		KeywordIDs:   []string{"kw-1", "kw-2"},
		MinFeedback:  -1, // explicit zero lower bound
		MaxFeedback:  80,
		MinRetrieval: 5,
		SortField:    "retrieval_count",
		SortOrder:    "desc",
		ListOptions:  ListOptions{Limit: 25, Offset: 50},
	}
	_, err := c.ListMemoryBlocks(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"postgres tuning"}, gotQuery["search_query"])
	assert.Equal(t, []string{"agent-1"}, gotQuery["agent_id"])
	assert.Equal(t, []string{"kw-1,kw-2"}, gotQuery["keyword_ids"])
	assert.Equal(t, []string{"0"}, gotQuery["min_feedback_score"])
	assert.Equal(t, []string{"80"}, gotQuery["max_feedback_score"])
	assert.Equal(t, []string{"5"}, gotQuery["min_retrieval_count"])
	assert.Equal(t, []string{"retrieval_count"}, gotQuery["sort_by"])
	assert.Equal(t, []string{"desc"}, gotQuery["sort_order"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"50"}, gotQuery["offset"])
}

func TestBulkApplyKeywords(t *testing.T) {
	var gotBody struct {
		Applications []KeywordApplication `json:"applications"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/memory-optimization/keywords/bulk-apply", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(BulkApplyResult{
			SuccessfulCount: 2,
			FailedCount:     1,
			Errors:          []BulkApplyError{{MemoryBlockID: "b3", Detail: "archived"}},
		})
	})

	apps := []KeywordApplication{
		{MemoryBlockID: "b1", KeywordIDs: []string{"k1"}},
		{MemoryBlockID: "b2", KeywordIDs: []string{"k1", "k2"}},
		{MemoryBlockID: "b3", KeywordIDs: []string{"k2"}},
	}
	result, err := c.BulkApplyKeywords(context.Background(), apps)
	require.NoError(t, err)

	assert.Equal(t, apps, gotBody.Applications)
	assert.Equal(t, 2, result.SuccessfulCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "b3", result.Errors[0].MemoryBlockID)
}

func TestCreateToken_SecretOnlyOnce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			_ = json.NewEncoder(w).Encode(Token{ID: "t1", Name: "ci", Secret: "hs_live_abc123"})
		default:
			_ = json.NewEncoder(w).Encode(map[string][]Token{
				"tokens": {{ID: "t1", Name: "ci", Prefix: "hs_live_ab"}},
			})
		}
	})

	created, err := c.CreateToken(context.Background(), "ci", []string{"read", "write"})
	require.NoError(t, err)
	assert.Equal(t, "hs_live_abc123", created.Secret)

	listed, err := c.ListTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Secret)
}

func TestCheckVersions(t *testing.T) {
	t.Run("Compatible", func(t *testing.T) {
		warning, err := checkVersions("2.4.0", "2.3.1")
		require.NoError(t, err)
		assert.Empty(t, warning)
	})

	t.Run("NewerMinorWarns", func(t *testing.T) {
		warning, err := checkVersions("2.4.0", "2.7.0")
		require.NoError(t, err)
		assert.Contains(t, warning, "newer")
	})

	t.Run("MajorMismatch", func(t *testing.T) {
		_, err := checkVersions("2.4.0", "3.0.0")
		assert.ErrorIs(t, err, ErrIncompatibleService)
	})

	t.Run("NonSemverWarnsOnly", func(t *testing.T) {
		warning, err := checkVersions("2.4.0", "deadbeef")
		require.NoError(t, err)
		assert.Contains(t, warning, "non-semver")
	})
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleOwner))
	assert.True(t, ValidRole(RoleViewer))
	assert.False(t, ValidRole("superuser"))
}
