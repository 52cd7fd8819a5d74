package advisor

import (
	"errors"
	"net/http"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/engine"
	"ShoeEdge/internal/game/manager"
	"ShoeEdge/internal/game/shoe"
	"ShoeEdge/internal/game/strategy"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register 挂到已带 JWT 中间件的路由组
func (h *Handler) Register(g gin.IRouter) {
	g.POST("/shoe/reset", h.Reset)
	g.POST("/shoe/observe", h.Observe)
	g.GET("/shoe", h.Snapshot)
	g.DELETE("/shoe", h.Close)
	g.GET("/shoe/bet", h.Bet)
	g.GET("/shoe/bust", h.Bust)
	g.POST("/shoe/advise", h.Advise)
	g.POST("/shoe/deal", h.Deal)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, manager.ErrNoSession), errors.Is(err, engine.ErrStopped):
		return http.StatusNotFound
	case errors.Is(err, shoe.ErrRankDepleted):
		return http.StatusConflict
	case errors.Is(err, card.ErrUnknownRank),
		errors.Is(err, shoe.ErrInvalidDecks),
		errors.Is(err, strategy.ErrHandTooShort),
		errors.Is(err, strategy.ErrBustedHand),
		errors.Is(err, strategy.ErrInvalidUpcard),
		errors.Is(err, engine.ErrInvalidCount),
		errors.Is(err, ErrNoRanks),
		errors.Is(err, ErrBadBankroll):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func owner(c *gin.Context) (string, bool) {
	addr := c.GetString("address")
	if addr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return "", false
	}
	return addr, true
}

// POST /shoe/reset  body: {decks}
func (h *Handler) Reset(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.svc.Reset(c.Request.Context(), addr, req.Decks)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// POST /shoe/observe  body: {rank} 或 {ranks: [...]}
func (h *Handler) Observe(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	var req ObserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accepted, snap, err := h.svc.Observe(c.Request.Context(), addr, req.tokens())
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error(), "accepted": accepted})
		return
	}
	c.JSON(http.StatusOK, ObserveResponse{Accepted: accepted, Shoe: snap})
}

// GET /shoe
func (h *Handler) Snapshot(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	snap, err := h.svc.Snapshot(addr)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DELETE /shoe
func (h *Handler) Close(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	if err := h.svc.Close(addr); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /shoe/bet?bankroll=&threshold=
func (h *Handler) Bet(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	var q BetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.svc.Bet(addr, q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /shoe/bust?upcard=
func (h *Handler) Bust(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	resp, err := h.svc.Bust(addr, c.Query("upcard"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /shoe/advise  body: {player, upcard, canDouble?, canSplit?, canSurrender?}
func (h *Handler) Advise(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	var req AdviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.svc.Advise(addr, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// POST /shoe/deal  body: {count}
func (h *Handler) Deal(c *gin.Context) {
	addr, ok := owner(c)
	if !ok {
		return
	}
	var req DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.svc.Deal(c.Request.Context(), addr, req.Count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
