package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalzilla/goalzilla/src/api/data"
	"github.com/goalzilla/goalzilla/src/core"
	"github.com/goalzilla/goalzilla/src/core/network"
)

func testService() *core.Service {
	// No wallet provider installed; ledger calls are never reached by
	// the paths under test.
	return core.New(nil, nil, "0x658f17BC6Dcfc19BBc4A76B260a8Dab56A413799",
		network.Descriptor{ChainIDHex: "0x29"})
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := testService()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	r := gin.New()
	walletH := NewWallet(rdb, svc, []byte("test-secret"))
	campaignH := NewCampaigns(nil, rdb, svc)
	r.POST("/v1/wallet/connect", walletH.Connect)
	r.GET("/v1/wallet", walletH.Status)
	r.GET("/v1/campaigns", campaignH.List)
	r.GET("/v1/campaigns/:id", campaignH.Get)
	r.POST("/v1/campaigns", campaignH.Create)
	return r
}

func TestWalletStatusDisconnected(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/wallet", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["isConnected"])
	assert.Equal(t, "", body["connectedAccount"])
}

func TestWalletConnectWithoutProvider(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/wallet/connect", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "wallet provider")
}

func TestCampaignsListEmpty(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"campaigns":[]}`, w.Body.String())
}

func TestCampaignGetBadID(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/campaigns/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignCreateValidationFlags(t *testing.T) {
	r := testRouter()

	draft := `{
		"title": "Clean Water",
		"description": "Wells",
		"goal": "100",
		"duration": "30",
		"category": "Environment",
		"beneficiaries": "Village",
		"proofOfWork": "Reports",
		"milestones": [{"name": "A", "target": "40"}, {"name": "B", "target": "60.01"}]
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", strings.NewReader(draft))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Fields map[string]bool `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Fields["milestones"], "overshooting milestones flagged")
	assert.False(t, body.Fields["title"])
}

func postToken(r *gin.Engine, account, nonce string) *httptest.ResponseRecorder {
	body := `{"account":"` + account + `","nonce":"` + nonce + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/wallet/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestWalletTokenHandshake(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	walletH := NewWallet(rdb, testService(), []byte("test-secret"))
	r.POST("/v1/wallet/token", walletH.Token)

	const addr = "0xaaaa000000000000000000000000000000000001"
	require.NoError(t, data.SetNonce(context.Background(), rdb, addr, "n-1"))

	w := postToken(r, addr, "n-1")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The minted token passes the middleware and carries the address.
	secured := gin.New()
	secured.GET("/secured", JWTMiddleware([]byte("test-secret")), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"addr": c.GetString("addr")})
	})
	sw := httptest.NewRecorder()
	sreq := httptest.NewRequest(http.MethodGet, "/secured", nil)
	sreq.Header.Set("Authorization", "Bearer "+resp.Token)
	secured.ServeHTTP(sw, sreq)
	require.Equal(t, http.StatusOK, sw.Code)
	assert.Contains(t, sw.Body.String(), addr)

	// Replaying the same nonce fails: consumed on first use.
	assert.Equal(t, http.StatusUnauthorized, postToken(r, addr, "n-1").Code)
}

func TestWalletTokenRejections(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	walletH := NewWallet(rdb, testService(), []byte("test-secret"))
	r.POST("/v1/wallet/token", walletH.Token)

	const addr = "0xaaaa000000000000000000000000000000000001"
	require.NoError(t, data.SetNonce(context.Background(), rdb, addr, "n-1"))

	assert.Equal(t, http.StatusUnauthorized,
		postToken(r, "0xbbbb000000000000000000000000000000000002", "n-1").Code, "wrong account")
	assert.Equal(t, http.StatusUnauthorized, postToken(r, addr, "n-2").Code, "wrong nonce")

	require.NoError(t, data.SetNonce(context.Background(), rdb, addr, "n-3"))
	mr.FastForward(6 * time.Minute)
	assert.Equal(t, http.StatusUnauthorized, postToken(r, addr, "n-3").Code, "expired nonce")
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := issueJWT("0xaaaa000000000000000000000000000000000001", secret)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secured", JWTMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"addr": c.GetString("addr")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0xaaaa000000000000000000000000000000000001")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secured", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("0xabc"))
	assert.True(t, rl.Allow("0xabc"))
	assert.False(t, rl.Allow("0xabc"), "third request within the window is rejected")
	assert.True(t, rl.Allow("0xdef"), "keys are independent")
}
