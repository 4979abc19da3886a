package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements ClientInterface and records sent messages
type mockClient struct {
	id       string
	mu       sync.Mutex
	messages [][]byte
	sendErr  error
	closed   bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{id: id}
}

func (m *mockClient) ID() string { return m.id }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) received() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestHubSubscribe(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")

	hub.Subscribe(client, 1)

	assert.Equal(t, 1, hub.ClientCount(1))
	assert.True(t, hub.IsSubscribed("c1", 1))
}

func TestHubSubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")

	hub.Subscribe(client, 1)
	hub.Subscribe(client, 1)

	assert.Equal(t, 1, hub.ClientCount(1))
}

func TestHubSubscribeMultipleChannels(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")

	hub.Subscribe(client, 1)
	hub.Subscribe(client, 2)

	assert.True(t, hub.IsSubscribed("c1", 1))
	assert.True(t, hub.IsSubscribed("c1", 2))
	assert.Equal(t, 2, hub.TotalClientCount())
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")

	hub.Subscribe(client, 1)
	hub.Subscribe(client, 2)
	hub.Unsubscribe(client, 1)

	assert.False(t, hub.IsSubscribed("c1", 1))
	assert.True(t, hub.IsSubscribed("c1", 2))
	assert.Equal(t, 0, hub.ClientCount(1))
}

func TestHubRemoveDropsAllChannels(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")
	other := newMockClient("c2")

	hub.Subscribe(client, 1)
	hub.Subscribe(client, 2)
	hub.Subscribe(other, 1)

	hub.Remove(client)

	assert.False(t, hub.IsSubscribed("c1", 1))
	assert.False(t, hub.IsSubscribed("c1", 2))
	assert.True(t, hub.IsSubscribed("c2", 1))
	assert.Equal(t, 1, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	client1 := newMockClient("c1")
	client2 := newMockClient("c2")

	hub.Subscribe(client1, 1)
	hub.Subscribe(client2, 1)

	hub.Broadcast(1, CardCreated(map[string]interface{}{"id": 42}))

	require.Len(t, client1.received(), 1)
	require.Len(t, client2.received(), 1)
	assert.Contains(t, string(client1.received()[0]), "card.created")
}

func TestHubBroadcastChannelIsolation(t *testing.T) {
	hub := NewHub()
	subscriber := newMockClient("c1")
	bystander := newMockClient("c2")

	hub.Subscribe(subscriber, 1)
	hub.Subscribe(bystander, 2)

	hub.Broadcast(1, CardCreated(map[string]interface{}{"id": 42}))

	assert.Len(t, subscriber.received(), 1)
	assert.Empty(t, bystander.received())
}

func TestHubBroadcastOrdering(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1")
	hub.Subscribe(client, 1)

	for i := 0; i < 10; i++ {
		hub.Broadcast(1, CardUpdated(map[string]interface{}{"seq": i}))
	}

	messages := client.received()
	require.Len(t, messages, 10)
	for i, msg := range messages {
		assert.Contains(t, string(msg), fmt.Sprintf(`"seq":%d`, i))
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newMockClient("c1")
	slow.sendErr = ErrClientClosed
	healthy := newMockClient("c2")

	hub.Subscribe(slow, 1)
	hub.Subscribe(slow, 2)
	hub.Subscribe(healthy, 1)

	hub.Broadcast(1, CardDeleted(map[string]interface{}{"id": 1}))

	// A client that cannot keep up is disconnected everywhere rather than
	// left subscribed with a gap in its event stream
	assert.False(t, hub.IsSubscribed("c1", 1))
	assert.False(t, hub.IsSubscribed("c1", 2))
	assert.True(t, slow.isClosed())
	assert.True(t, hub.IsSubscribed("c2", 1))
	assert.Len(t, healthy.received(), 1)

	slow.sendErr = nil
	hub.Broadcast(1, CardUpdated(map[string]interface{}{"id": 1}))
	assert.Empty(t, slow.received())
	assert.Len(t, healthy.received(), 2)
}

func TestHubBroadcastEmptyChannel(t *testing.T) {
	hub := NewHub()

	// Must not panic
	hub.Broadcast(99, CardCreated(nil))

	assert.Equal(t, 0, hub.ClientCount(99))
}

func TestHubConcurrentBroadcastOrder(t *testing.T) {
	hub := NewHub()
	first := newMockClient("c1")
	second := newMockClient("c2")
	hub.Subscribe(first, 1)
	hub.Subscribe(second, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hub.Broadcast(1, CardUpdated(map[string]interface{}{"seq": n}))
		}(i)
	}
	wg.Wait()

	// Both connections see the channel's events in the same relative order
	a := first.received()
	b := second.received()
	require.Len(t, a, 50)
	require.Len(t, b, 50)
	for i := range a {
		assert.Equal(t, string(a[i]), string(b[i]))
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client := newMockClient(fmt.Sprintf("c%d", n))
			hub.Subscribe(client, int32(n%3))
			hub.Broadcast(int32(n%3), CardUpdated(map[string]interface{}{"n": n}))
			hub.Remove(client)
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 0, hub.TotalClientCount())
}
