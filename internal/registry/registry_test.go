package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protofab/protofab/internal/types"
)

func testDefinition(name string) *types.CustomComponentDefinition {
	return &types.CustomComponentDefinition{
		Name:        name,
		DisplayName: "Test " + name,
		Template: &types.TemplateElement{
			Type: types.ElementContainer,
		},
		DefaultProps: map[string]any{},
		Settings:     []types.SettingDefinition{},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewDefinitionRegistry()

	def := testDefinition("counter")
	reg.Register(def)

	got, exists := reg.Get("counter")
	require.True(t, exists)
	assert.Equal(t, "counter", got.Name)

	_, exists = reg.Get("missing")
	assert.False(t, exists)

	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_GetAllReturnsCopy(t *testing.T) {
	reg := NewDefinitionRegistry()
	reg.Register(testDefinition("a"))
	reg.Register(testDefinition("b"))

	all := reg.GetAll()
	assert.Len(t, all, 2)

	// Mutating the returned map must not affect the registry.
	delete(all, "a")
	assert.Equal(t, 2, reg.Count())
}

func TestRegistry_Names(t *testing.T) {
	reg := NewDefinitionRegistry()
	reg.Register(testDefinition("zebra"))
	reg.Register(testDefinition("apple"))
	reg.Register(testDefinition("mango"))

	assert.Equal(t, []string{"apple", "mango", "zebra"}, reg.Names())
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewDefinitionRegistry()
	reg.Register(testDefinition("counter"))
	reg.Remove("counter")

	_, exists := reg.Get("counter")
	assert.False(t, exists)
	assert.Equal(t, 0, reg.Count())

	// Removing a missing definition is a no-op.
	reg.Remove("counter")
}

func TestRegistry_WatchEvents(t *testing.T) {
	reg := NewDefinitionRegistry()
	ch := reg.Watch()

	reg.Register(testDefinition("counter"))
	event := receiveEvent(t, ch)
	assert.Equal(t, types.DefinitionAdded, event.Type)
	assert.Equal(t, "counter", event.Definition.Name)

	reg.Register(testDefinition("counter"))
	event = receiveEvent(t, ch)
	assert.Equal(t, types.DefinitionUpdated, event.Type)

	reg.Remove("counter")
	event = receiveEvent(t, ch)
	assert.Equal(t, types.DefinitionRemoved, event.Type)
	assert.Equal(t, "counter", event.Definition.Name)
}

func TestRegistry_UnWatch(t *testing.T) {
	reg := NewDefinitionRegistry()
	ch := reg.Watch()
	reg.UnWatch(ch)

	// Channel is closed after UnWatch.
	_, open := <-ch
	assert.False(t, open)

	// Registering after UnWatch must not panic.
	reg.Register(testDefinition("counter"))
}

func TestRegistry_FullWatcherDoesNotBlock(t *testing.T) {
	reg := NewDefinitionRegistry()
	reg.Watch() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			reg.Register(testDefinition("counter"))
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Register blocked on a full watcher channel")
	}
}

func receiveEvent(t *testing.T, ch <-chan types.DefinitionEvent) types.DefinitionEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for registry event")
		return types.DefinitionEvent{}
	}
}
