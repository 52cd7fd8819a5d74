package websocket

import (
	"sync"

	"ShoeEdge/internal/utils"
)

// HubInterface 游戏层只依赖这两个方法，测试里用 mock 替换
type HubInterface interface {
	SendTo(owner string, msg OutgoingMessage)
	Connected(owner string) bool
}

// Hub 每个操作员一条展示连接（owner address -> client）
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	mu         sync.RWMutex
}

type sendReq struct {
	Owner   string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sendOne:    make(chan sendReq, 64),
		incoming:   make(chan IncomingMessage, 64),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			// 同一操作员重连：替换旧连接
			if old, ok := h.clients[c.Owner]; ok && old != c {
				close(old.Send)
			}
			h.clients[c.Owner] = c
			n := len(h.clients)
			h.mu.Unlock()
			utils.Log.Info("hub register", "owner", c.Owner, "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[c.Owner]; ok && cur == c {
				delete(h.clients, c.Owner)
				close(c.Send)
				utils.Log.Info("hub unregister", "owner", c.Owner, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			client, ok := h.clients[req.Owner]
			h.mu.RUnlock()
			if !ok {
				continue
			}
			select {
			case client.Send <- req.Message:
			default:
				// 展示端太慢：丢弃，下一次快照会覆盖
				utils.Log.Warn("display backlog, dropping message", "owner", req.Owner, "event", req.Message.Event)
			}

		case req := <-h.incoming:
			// 玩家消息统一转发给游戏层（GameManager）
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for owner, c := range h.clients {
				close(c.Send)
				delete(h.clients, owner)
			}
			h.mu.Unlock()
			return
		}
	}
}

// SendTo 推送给单个操作员（并发安全，从不阻塞调用方）
func (h *Hub) SendTo(owner string, msg OutgoingMessage) {
	select {
	case h.sendOne <- sendReq{Owner: owner, Message: msg}:
	case <-h.quit:
	default:
		utils.Log.Warn("hub queue full, dropping message", "owner", owner, "event", msg.Event)
	}
}

// join 注册连接；hub 已关闭时返回 false
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) deliver(msg IncomingMessage) bool {
	select {
	case h.incoming <- msg:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Connected(owner string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[owner]
	return ok
}

func (h *Hub) Close() {
	close(h.quit)
}
