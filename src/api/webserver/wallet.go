package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/goalzilla/goalzilla/src/api/data"
	"github.com/goalzilla/goalzilla/src/core"
	"github.com/goalzilla/goalzilla/src/core/wallet"
)

type Wallet struct {
	rdb       *redis.Client
	svc       *core.Service
	jwtSecret []byte
}

func NewWallet(rdb *redis.Client, svc *core.Service, secret []byte) Wallet {
	return Wallet{rdb: rdb, svc: svc, jwtSecret: secret}
}

// Connect drives the session connect: network reconciliation, account
// access, balance read. On success it mints a one-time nonce for the
// connected address; Token exchanges that nonce for a bearer token.
func (w Wallet) Connect(c *gin.Context) {
	err := w.svc.ConnectWallet(c.Request.Context())
	switch {
	case errors.Is(err, wallet.ErrNoProvider):
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": w.svc.Err()})
		return
	case errors.Is(err, wallet.ErrConnectInProgress):
		c.JSON(http.StatusConflict, gin.H{"err": "connect already in progress"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"err": w.svc.Err()})
		return
	}

	addr := w.svc.ConnectedAccount()
	nonce := uuid.NewString()
	if err := data.SetNonce(c, w.rdb, addr, nonce); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account": addr,
		"balance": w.svc.AccountBalance(),
		"nonce":   nonce,
	})
}

// Token exchanges the nonce minted by Connect for a bearer token bound to
// the account. The nonce is consumed on first use.
func (w Wallet) Token(c *gin.Context) {
	var req struct {
		Account string `json:"account" binding:"required"`
		Nonce   string `json:"nonce" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	stored, err := data.GetAndDelNonce(c, w.rdb, req.Account)
	if err != nil || stored != req.Nonce {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "unknown or expired nonce"})
		return
	}

	token, err := issueJWT(req.Account, w.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Status reports the session's connected/disconnected view.
func (w Wallet) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isConnected":      w.svc.IsConnected(),
		"connectedAccount": w.svc.ConnectedAccount(),
		"accountBalance":   w.svc.AccountBalance(),
		"loading":          w.svc.Loading(),
		"error":            w.svc.Err(),
	})
}
