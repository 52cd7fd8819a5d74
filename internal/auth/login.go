package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ShoeEdge/internal/utils"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const defaultNonceTTL = 5 * time.Minute

var (
	ErrBadSignature      = errors.New("malformed signature")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
}

type Handler struct {
	nonces   NonceRepo
	accounts AccountRepo
	secret   []byte
	tokenTTL time.Duration
	nonceTTL time.Duration
}

// 工厂方法：创建 handler
func NewHandler(nonces NonceRepo, accounts AccountRepo, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		nonces:   nonces,
		accounts: accounts,
		secret:   secret,
		tokenTTL: tokenTTL,
		nonceTTL: defaultNonceTTL,
	}
}

// SignMessage 钱包端 personal_sign 的原文
func SignMessage(nonce string) string {
	return "Sign this message to authenticate with ShoeEdge. Nonce: " + nonce
}

// RecoverAddress 恢复签名者地址 (核心)，返回 checksum 格式
func RecoverAddress(nonce, signature string) (string, error) {
	msg := SignMessage(nonce)
	// 构造与 MetaMask personal_sign 完全一致的消息
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	hash := crypto.Keccak256Hash([]byte(prefix))

	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return "", ErrBadSignature
	}
	// 修正 V 值
	if sigBytes[crypto.RecoveryIDOffset] >= 27 {
		sigBytes[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(hash.Bytes(), sigBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// IssueToken 签发 HS256 JWT，sub 为操作员地址
func IssueToken(secret []byte, address string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": address,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// POST /auth/login  body: {address, signature, nonce}
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	ctx := c.Request.Context()

	// 检查 nonce 是否有效，只允许一次
	ok, err := h.nonces.Consume(ctx, req.Nonce)
	if err != nil {
		utils.Log.Error("nonce lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "nonce lookup failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrNonceUnknown.Error()})
		return
	}

	recovered, err := RecoverAddress(req.Nonce, req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verify failed"})
		return
	}
	if !strings.EqualFold(recovered, req.Address) {
		utils.Log.Warn("login rejected", "claimed", req.Address, "recovered", recovered)
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrSignatureMismatch.Error()})
		return
	}

	// -----------------------------
	// ✓ 签名验证成功 → 记台账 + 生成 JWT
	// -----------------------------
	if _, err := h.accounts.RecordLogin(ctx, recovered, time.Now()); err != nil {
		// 台账失败不影响登录
		utils.Log.Warn("login ledger write failed", "address", recovered, "err", err)
	}

	jwtStr, err := IssueToken(h.secret, recovered, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	utils.Log.Info("operator login", "address", recovered)
	c.JSON(http.StatusOK, gin.H{
		"jwt":     jwtStr,
		"address": recovered,
	})
}

// GET /auth/me  (需 JWT)
func (h *Handler) Me(c *gin.Context) {
	addr := c.GetString("address")
	a, err := h.accounts.Get(c.Request.Context(), addr)
	if errors.Is(err, ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}
