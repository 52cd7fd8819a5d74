package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"ShoeEdge/internal/utils"

	"github.com/gin-gonic/gin"
)

var ErrNonceUnknown = errors.New("invalid nonce")

// NonceRepo 一次性登录 nonce，防重放
type NonceRepo interface {
	// Issue 保存 nonce，ttl 后过期
	Issue(ctx context.Context, nonce string, ttl time.Duration) error
	// Consume 原子地取出 nonce；不存在或已过期返回 false
	Consume(ctx context.Context, nonce string) (bool, error)
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GET|POST /auth/nonce
func (h *Handler) Nonce(c *gin.Context) {
	nonce, err := generateNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}

	if err := h.nonces.Issue(c.Request.Context(), nonce, h.nonceTTL); err != nil {
		utils.Log.Error("nonce store failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce, "message": SignMessage(nonce)})
}
