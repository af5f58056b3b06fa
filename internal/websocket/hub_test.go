package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("ws-secret")

func saleEvent(eventType string, unitID, repID uuid.UUID, payload interface{}) service.Event {
	return service.Event{Type: eventType, BusinessUnitID: unitID, SalesRepID: repID, Payload: payload}
}

func TestPublishQueuesEnvelope(t *testing.T) {
	hub := NewHub(zap.NewNop())
	unitID, repID := uuid.New(), uuid.New()
	hub.Publish(saleEvent("sale.confirmed", unitID, repID, map[string]string{"sale_id": "s1"}))

	queued := <-hub.broadcast
	assert.Equal(t, unitID, queued.businessUnitID)
	assert.Equal(t, repID, queued.salesRepID)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(queued.data, &msg))
	assert.Equal(t, "sale.confirmed", msg.Type)
	assert.Equal(t, "s1", msg.Data["sale_id"])
}

func TestPublishDropsWhenQueueIsFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.Publish(saleEvent("tick", uuid.New(), uuid.New(), i))
	}

	done := make(chan struct{})
	go func() {
		hub.Publish(saleEvent("overflow", uuid.New(), uuid.New(), nil))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestRunRoutesEventsByScope(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	unitA, unitB := uuid.New(), uuid.New()
	repA, repB := uuid.New(), uuid.New()
	client := func(actor service.Actor) *Client {
		c := &Client{Hub: hub, Send: make(chan []byte, 4), Actor: actor}
		hub.register <- c
		return c
	}
	admin := client(service.Actor{UserID: uuid.New(), Role: model.RoleAdmin})
	managerA := client(service.Actor{UserID: uuid.New(), Role: model.RoleManager, BusinessUnitID: &unitA})
	managerB := client(service.Actor{UserID: uuid.New(), Role: model.RoleManager, BusinessUnitID: &unitB})
	ownRep := client(service.Actor{UserID: uuid.New(), Role: model.RoleSalesRep, BusinessUnitID: &unitA, SalesRepID: &repA})
	peerRep := client(service.Actor{UserID: uuid.New(), Role: model.RoleSalesRep, BusinessUnitID: &unitA, SalesRepID: &repB})
	require.Eventually(t, func() bool { return hub.ClientCount() == 5 }, time.Second, 10*time.Millisecond)

	hub.Publish(saleEvent("sale.confirmed", unitA, repA, map[string]string{"sale_id": "s1"}))

	for name, c := range map[string]*Client{"admin": admin, "manager of the unit": managerA, "owning rep": ownRep} {
		select {
		case data := <-c.Send:
			assert.Contains(t, string(data), `"sale_id":"s1"`, name)
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive the event", name)
		}
	}

	// Run holds the client lock for the whole delivery pass; taking it here waits the pass out.
	require.Equal(t, 5, hub.ClientCount())
	for name, c := range map[string]*Client{"manager of another unit": managerB, "another rep": peerRep} {
		assert.Empty(t, c.Send, name)
	}
}

func TestServeWsDeliversEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop())
	go hub.Run()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	unitID := uuid.New()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":              uuid.NewString(),
		"role":             model.RoleManager,
		"business_unit_id": unitID.String(),
		"exp":              time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(saleEvent("sale.confirmed", uuid.New(), uuid.New(), map[string]string{"sale_id": "elsewhere"}))
	hub.Publish(saleEvent("sale.confirmed", unitID, uuid.New(), map[string]string{"sale_id": "s1"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"sale.confirmed"`)
	assert.Contains(t, string(data), `"sale_id":"s1"`)
	assert.NotContains(t, string(data), "elsewhere")
}
