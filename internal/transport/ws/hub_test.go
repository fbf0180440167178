package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dto "guardianearth/internal/entity"
)

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop())
	go hub.Run()

	router := gin.New()
	router.GET("/ws", hub.HandleDashboard)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration goes through the hub's run loop.
	time.Sleep(50 * time.Millisecond)

	hub.PublishPayment("payment.created", &dto.Payment{ID: "pay-1", Status: dto.StatusPending})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event PaymentEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "payment.created", event.Kind)
	assert.Equal(t, "pay-1", event.Payment.ID)
}

func TestPublishDoesNotBlockWithoutClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// No Run loop: the buffered channel absorbs what it can, the rest drops.
	for i := 0; i < 200; i++ {
		hub.PublishPayment("payment.created", &dto.Payment{ID: "pay-x"})
	}
}
