package realtime

import (
	"net"
	"sync"
	"testing"
	"time"

	fwebsocket "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
)

func startHubServer(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws", Upgrade, hub.Handler())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return hub, "ws://" + ln.Addr().String() + "/ws"
}

func dialHub(t *testing.T, url string, userID primitive.ObjectID) *fwebsocket.Conn {
	t.Helper()

	token, err := lib.GenerateJWT(userID.Hex())
	require.NoError(t, err)

	conn, _, err := fwebsocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func TestPushConcurrentWriters(t *testing.T) {
	hub, url := startHubServer(t)

	userID := primitive.NewObjectID()
	conn := dialHub(t, url, userID)

	require.Eventually(t, func() bool {
		return hub.Sessions(userID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	const writers = 8
	const pushes = 200

	received := make(chan Envelope, writers*pushes)
	go func() {
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			received <- env
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for j := 0; j < pushes; j++ {
				hub.Push(userID, "notification", fiber.Map{"writer": writer, "seq": j})
			}
		}(i)
	}
	wg.Wait()

	// Every frame must arrive intact; a torn write would kill the read loop
	// and starve the channel.
	for i := 0; i < writers*pushes; i++ {
		select {
		case env := <-received:
			assert.Equal(t, "notification", env.Event)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of %d pushed events", i, writers*pushes)
		}
	}

	assert.Equal(t, 1, hub.Sessions(userID))
}

func TestPushToEmptyRoom(t *testing.T) {
	hub := NewHub()
	hub.Push(primitive.NewObjectID(), "notification", fiber.Map{"noop": true})
}

func TestUpgradeRejectsBadToken(t *testing.T) {
	_, url := startHubServer(t)

	_, _, err := fwebsocket.DefaultDialer.Dial(url+"?token=not-a-token", nil)
	assert.Error(t, err)
}

func TestSessionsTracksDisconnect(t *testing.T) {
	hub, url := startHubServer(t)

	userID := primitive.NewObjectID()
	conn := dialHub(t, url, userID)

	require.Eventually(t, func() bool {
		return hub.Sessions(userID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.Sessions(userID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
