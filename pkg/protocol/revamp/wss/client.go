package wss

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/websocket"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

// ClientConfig WebSocket 客户端配置
type ClientConfig struct {
	URL                  string // 节点 wss 地址
	PingInterval         time.Duration
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	ProxyString          string
}

// ChannelType 订阅频道类型
type ChannelType string

const (
	// ChannelHeads 新区块头订阅
	ChannelHeads ChannelType = "newHeads"
	// ChannelPrice 分红池 PriceHistory 事件订阅
	ChannelPrice ChannelType = "logs"
)

// Client 节点 WebSocket 订阅客户端
type Client struct {
	config  ClientConfig
	network *common.Network
}

// NewClient 创建订阅客户端
func NewClient(network *common.Network, cfg ClientConfig) (*Client, error) {
	if network == nil {
		return nil, fmt.Errorf("network required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("wss url required")
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 15 * time.Second
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = 10
	}

	return &Client{config: cfg, network: network}, nil
}

// CreateHeadConnection 创建新区块头订阅连接
func (c *Client) CreateHeadConnection() *Connection {
	params := []interface{}{"newHeads"}
	return NewConnection(ChannelHeads, c.config, params)
}

// CreatePriceConnection 创建份额价格事件订阅连接，
// 只监听分红池合约的 PriceHistory 事件
func (c *Client) CreatePriceConnection() (*Connection, error) {
	if !c.network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", c.network.Label)
	}
	topic := crypto.Keccak256Hash([]byte(common.PriceHistoryEventSig))
	params := []interface{}{"logs", map[string]interface{}{
		"address": strings.ToLower(c.network.ShareholdingAddress),
		"topics":  []string{topic.Hex()},
	}}
	return NewConnection(ChannelPrice, c.config, params), nil
}

// HeadEvent 新区块头事件
type HeadEvent struct {
	Number    uint64
	Hash      string
	Timestamp int64
}

// Connection 一条订阅连接
type Connection struct {
	channel            ChannelType
	config             ClientConfig
	subscribeParams    []interface{}
	conn               *websocket.Conn
	mu                 sync.RWMutex
	isConnected        bool
	isIntentionalClose bool
	reconnectAttempts  int
	pingTimer          *time.Ticker
	reconnectTimer     *time.Timer
	stopCh             chan struct{}
	nextID             int

	// 回调函数
	onConnected     func()
	onDisconnected  func(code int, reason string)
	onError         func(err error)
	onReconnecting  func(attempt int, delay time.Duration)
	onReconnectFail func(attempts int)

	onNewHead    func(*HeadEvent)
	onPricePoint func(*common.HistoricalPoint)

	// 通用消息回调
	onMessage func(channel ChannelType, data []byte)
}

// NewConnection 创建订阅连接
func NewConnection(channel ChannelType, config ClientConfig, params []interface{}) *Connection {
	return &Connection{
		channel:         channel,
		config:          config,
		subscribeParams: params,
		stopCh:          make(chan struct{}),
		nextID:          1,
	}
}

// OnConnected 设置连接成功回调
func (c *Connection) OnConnected(fn func()) { c.onConnected = fn }

// OnDisconnected 设置断开连接回调
func (c *Connection) OnDisconnected(fn func(code int, reason string)) { c.onDisconnected = fn }

// OnError 设置错误回调
func (c *Connection) OnError(fn func(err error)) { c.onError = fn }

// OnReconnecting 设置重连中回调
func (c *Connection) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	c.onReconnecting = fn
}

// OnReconnectFail 设置重连失败回调
func (c *Connection) OnReconnectFail(fn func(attempts int)) { c.onReconnectFail = fn }

// OnNewHead 设置新区块头回调
func (c *Connection) OnNewHead(fn func(*HeadEvent)) { c.onNewHead = fn }

// OnPricePoint 设置份额价格事件回调
func (c *Connection) OnPricePoint(fn func(*common.HistoricalPoint)) { c.onPricePoint = fn }

// OnMessage 设置原始消息回调
func (c *Connection) OnMessage(fn func(channel ChannelType, data []byte)) { c.onMessage = fn }

// Connect 连接并发送订阅请求
func (c *Connection) Connect() error {
	c.mu.Lock()
	if c.isConnected {
		c.mu.Unlock()
		return nil
	}
	c.isIntentionalClose = false
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if c.config.ProxyString != "" {
		proxyCfg := common.ParseProxyString(c.config.ProxyString)
		if proxyCfg != nil {
			if proxyCfg.IsSocks() {
				proxyDialer, err := common.CreateProxyDialer(c.config.ProxyString)
				if err == nil && proxyDialer != nil {
					dialer.NetDial = proxyDialer.Dial
				}
			} else {
				dialer.Proxy = http.ProxyURL(proxyCfg.GetProxyURL())
			}
		}
	}

	conn, _, err := dialer.Dial(c.config.URL, http.Header{})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.isConnected = true
	c.reconnectAttempts = 0
	c.mu.Unlock()

	// 发送订阅请求
	if err := c.subscribe(); err != nil {
		c.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	// 启动心跳
	c.startPing()

	// 启动消息读取
	go c.readLoop()

	if c.onConnected != nil {
		c.onConnected()
	}

	return nil
}

// Close 关闭连接
func (c *Connection) Close() {
	c.mu.Lock()
	c.isIntentionalClose = true
	c.mu.Unlock()

	c.stopPing()
	c.stopReconnect()

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.isConnected = false
	c.mu.Unlock()

	close(c.stopCh)
}

// IsConnected 检查连接状态
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// GetStatus 获取状态
func (c *Connection) GetStatus() (connected bool, attempts int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected, c.reconnectAttempts
}

// send 发送 JSON 消息
func (c *Connection) send(data interface{}) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.isConnected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return fmt.Errorf("not connected")
	}

	msg, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// subscribe 发送 eth_subscribe 请求
func (c *Connection) subscribe() error {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.mu.Unlock()

	return c.send(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "eth_subscribe",
		"params":  c.subscribeParams,
	})
}

// startPing 启动心跳，节点侧按 WebSocket 控制帧回应
func (c *Connection) startPing() {
	c.stopPing()
	c.pingTimer = time.NewTicker(c.config.PingInterval)

	go func() {
		for {
			select {
			case <-c.pingTimer.C:
				c.mu.RLock()
				conn := c.conn
				connected := c.isConnected
				c.mu.RUnlock()
				if connected && conn != nil {
					conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				}
			case <-c.stopCh:
				return
			}
		}
	}()
}

// stopPing 停止心跳
func (c *Connection) stopPing() {
	if c.pingTimer != nil {
		c.pingTimer.Stop()
		c.pingTimer = nil
	}
}

// stopReconnect 停止重连
func (c *Connection) stopReconnect() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

// readLoop 消息读取循环
func (c *Connection) readLoop() {
	for {
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn == nil {
			return
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(websocket.CloseAbnormalClosure, err.Error())
			return
		}

		c.handleMessage(msg)
	}
}

// notification eth_subscription 推送消息
type notification struct {
	Method string `json:"method"`
	Params struct {
		Subscription string          `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params"`
}

// handleMessage 处理消息
func (c *Connection) handleMessage(msg []byte) {
	// 原始消息回调
	if c.onMessage != nil {
		c.onMessage(c.channel, msg)
	}

	var note notification
	if err := json.Unmarshal(msg, &note); err != nil {
		return
	}
	// 订阅确认等响应没有 method 字段，直接忽略
	if note.Method != "eth_subscription" {
		return
	}

	switch c.channel {
	case ChannelHeads:
		c.handleHead(note.Params.Result)
	case ChannelPrice:
		c.handlePriceLog(note.Params.Result)
	}
}

// handleHead 处理新区块头推送
func (c *Connection) handleHead(raw json.RawMessage) {
	if c.onNewHead == nil {
		return
	}
	var head struct {
		Number    string `json:"number"`
		Hash      string `json:"hash"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return
	}
	c.onNewHead(&HeadEvent{
		Number:    hexUint(head.Number),
		Hash:      head.Hash,
		Timestamp: int64(hexUint(head.Timestamp)),
	})
}

// handlePriceLog 处理 PriceHistory 事件推送
func (c *Connection) handlePriceLog(raw json.RawMessage) {
	if c.onPricePoint == nil {
		return
	}
	var entry struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return
	}
	data := ethcommon.FromHex(entry.Data)
	if len(data) < 96 {
		return
	}
	c.onPricePoint(&common.HistoricalPoint{
		Price:     new(big.Int).SetBytes(data[0:32]),
		Volume:    new(big.Int).SetBytes(data[32:64]),
		Timestamp: new(big.Int).SetBytes(data[64:96]).Int64(),
	})
}

// handleClose 处理连接关闭
func (c *Connection) handleClose(code int, reason string) {
	c.mu.Lock()
	c.isConnected = false
	c.stopPing()
	intentional := c.isIntentionalClose
	c.mu.Unlock()

	if c.onDisconnected != nil {
		c.onDisconnected(code, reason)
	}

	// 非主动关闭时尝试重连
	if !intentional && c.config.MaxReconnectAttempts > 0 {
		c.tryReconnect()
	}
}

// tryReconnect 尝试重连
func (c *Connection) tryReconnect() {
	c.mu.Lock()
	if c.reconnectAttempts >= c.config.MaxReconnectAttempts {
		c.mu.Unlock()
		if c.onReconnectFail != nil {
			c.onReconnectFail(c.reconnectAttempts)
		}
		return
	}

	c.reconnectAttempts++
	attempt := c.reconnectAttempts
	delay := c.config.ReconnectDelay * time.Duration(attempt)
	c.mu.Unlock()

	if c.onReconnecting != nil {
		c.onReconnecting(attempt, delay)
	}

	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.mu.RLock()
		intentional := c.isIntentionalClose
		c.mu.RUnlock()

		if !intentional {
			if err := c.Connect(); err != nil {
				if c.onError != nil {
					c.onError(err)
				}
			}
		}
	})
}

// hexUint 解析 0x 前缀的十六进制数值
func hexUint(s string) uint64 {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return 0
	}
	return v.Uint64()
}
