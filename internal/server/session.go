package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/protofab/protofab/internal/engine"
	"github.com/protofab/protofab/internal/renderer"
)

// Session owns the component instance behind one browser connection. All
// interaction events from the preview shell flow through here, and every
// state change is answered with a fresh render of the instance.
type Session struct {
	server *PreviewServer
	client *Client

	mutex    sync.Mutex
	name     string
	instance *engine.Instance
}

// clientMessage is the wire format of messages from the preview shell.
type clientMessage struct {
	Type string `json:"type"`
	// select
	Name  string         `json:"name,omitempty"`
	Props map[string]any `json:"props,omitempty"`
	// event
	Event     string   `json:"event,omitempty"`
	ItemIndex *int     `json:"itemIndex,omitempty"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	// dismiss
	Overlay string `json:"overlay,omitempty"`
	// dropdown
	ID string `json:"id,omitempty"`
}

// serverMessage is the wire format of messages to the preview shell.
type serverMessage struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	HTML    string `json:"html,omitempty"`
	Target  string `json:"target,omitempty"`
	Pattern []int  `json:"pattern,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func newSession(server *PreviewServer, client *Client) *Session {
	return &Session{server: server, client: client}
}

// Handle processes one raw message from the browser.
func (sess *Session) Handle(ctx context.Context, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sess.server.logger.Debug(ctx, "bad client message", "reason", err.Error())
		return
	}

	sess.mutex.Lock()
	defer sess.mutex.Unlock()

	switch msg.Type {
	case "select":
		sess.selectDefinition(ctx, msg.Name, msg.Props)
	case "event":
		sess.dispatch(msg)
	case "dismiss":
		sess.dismiss(msg.Overlay)
	case "dropdown":
		sess.dropdownSelect(msg.ID)
	default:
		sess.server.logger.Debug(ctx, "unknown message type", "type", msg.Type)
	}
}

// selectDefinition binds the session to a definition and builds a fresh
// instance for it.
func (sess *Session) selectDefinition(ctx context.Context, name string, props map[string]any) {
	def, ok := sess.server.registry.Get(name)
	if !ok {
		sess.send(serverMessage{Type: "error", Detail: "unknown definition: " + name})
		return
	}

	sess.name = name
	sess.instance = engine.NewInstance(def, props, sess.hooks())
	sess.scheduleAfter()
	sess.sendRender()
	sess.server.logger.Debug(ctx, "session selected definition", "name", name)
}

func (sess *Session) dispatch(msg clientMessage) {
	if sess.instance == nil {
		return
	}

	data := engine.EventData{X: msg.X, Y: msg.Y}
	if msg.ItemIndex != nil {
		data.ItemIndex = *msg.ItemIndex
		data.HasIndex = true
	}

	sess.instance.Dispatch(msg.Event, data)
	sess.scheduleAfter()
	sess.sendRender()
}

func (sess *Session) dismiss(overlay string) {
	if sess.instance == nil {
		return
	}
	switch overlay {
	case "sheet":
		sess.instance.CloseSheet()
	case "dropdown":
		sess.instance.CloseDropdown()
	}
	sess.sendRender()
}

func (sess *Session) dropdownSelect(id string) {
	if sess.instance == nil {
		return
	}
	sess.instance.SelectDropdownItem(id)
	sess.scheduleAfter()
	sess.sendRender()
}

// scheduleAfter arms a timer for every delayed transition of the current
// state. Each timer captures the generation it was armed in; the engine
// drops the dispatch if the instance has moved on by the time it fires.
func (sess *Session) scheduleAfter() {
	generation := sess.instance.Generation()
	for _, entry := range sess.instance.PendingAfter() {
		key := entry.Event
		time.AfterFunc(entry.Delay, func() {
			sess.mutex.Lock()
			defer sess.mutex.Unlock()
			if sess.instance == nil || sess.instance.Generation() != generation {
				return
			}
			sess.instance.FireAfter(key, generation)
			if sess.instance.Generation() != generation {
				sess.scheduleAfter()
				sess.sendRender()
			}
		})
	}
}

func (sess *Session) hooks() engine.Hooks {
	return engine.Hooks{
		Navigate: func(screenID string) {
			sess.send(serverMessage{Type: "navigate", Target: screenID})
		},
		Haptic: func(pattern []int) {
			sess.send(serverMessage{Type: "haptic", Pattern: pattern})
		},
	}
}

func (sess *Session) sendRender() {
	if sess.instance == nil {
		return
	}
	html := sess.server.renderer.RenderInstance(sess.instance, renderer.Options{Preview: true})
	sess.send(serverMessage{Type: "render", Name: sess.name, HTML: html})
}

func (sess *Session) send(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case sess.client.send <- data:
	default:
		// Slow client, drop the frame; the next render supersedes it
	}
}

func encodeMessage(msg UpdateMessage) ([]byte, error) {
	return json.Marshal(msg)
}
