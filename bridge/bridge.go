// Package bridge carries normalized playback events to a consumer over four
// independent topics.
package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/metadata"
	"github.com/spf13/viper"
)

type Name string

const (
	StateChanged    Name = "StateChanged"
	MetadataChanged Name = "MetadataChanged"
	PositionChanged Name = "PositionChanged"
	DurationChanged Name = "DurationChanged"
)

const defaultBuffer = 64

// Bridge groups the event topics of one player.
type Bridge struct {
	State    *Topic[bool]
	Metadata *Topic[metadata.Normalized]
	Position *Topic[int64]
	Duration *Topic[int64]
}

// New creates the topics with the given subscriber buffer.
// A non-positive buffer falls back to events.buffer.
func New(buffer int) *Bridge {
	if buffer <= 0 {
		buffer = viper.GetInt(key.EventsBuffer)
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Bridge{
		State:    NewTopic[bool](StateChanged, buffer),
		Metadata: NewTopic[metadata.Normalized](MetadataChanged, buffer),
		Position: NewTopic[int64](PositionChanged, buffer),
		Duration: NewTopic[int64](DurationChanged, buffer),
	}
}

// Close unsubscribes every topic.
func (b *Bridge) Close() {
	b.State.Unsubscribe()
	b.Metadata.Unsubscribe()
	b.Position.Unsubscribe()
	b.Duration.Unsubscribe()
}

// Event is the serialized form of any topic value.
type Event struct {
	Name     Name      `json:"event" jsonschema:"enum=StateChanged,enum=MetadataChanged,enum=PositionChanged,enum=DurationChanged,description=Topic the event was published on."`
	Playing  *bool     `json:"playing,omitempty" jsonschema:"description=Set for StateChanged. True while playing."`
	Metadata []string  `json:"metadata,omitempty" jsonschema:"minItems=3,maxItems=3,description=Set for MetadataChanged. Title, subtitle and artwork reference."`
	Millis   *int64    `json:"ms,omitempty" jsonschema:"description=Set for PositionChanged and DurationChanged. Milliseconds."`
	Time     time.Time `json:"time" jsonschema:"description=When the event left the bridge."`
}

func stateEvent(playing bool) Event {
	return Event{Name: StateChanged, Playing: &playing, Time: time.Now()}
}

func metadataEvent(n metadata.Normalized) Event {
	f := n.Fields()
	return Event{Name: MetadataChanged, Metadata: f[:], Time: time.Now()}
}

func millisEvent(name Name) func(int64) Event {
	return func(ms int64) Event {
		return Event{Name: name, Millis: &ms, Time: time.Now()}
	}
}

// Merge subscribes to every topic and fans their values into one stream.
// Order is preserved per topic, not across topics. The stream closes once
// ctx is done or every topic has been unsubscribed.
func (b *Bridge) Merge(ctx context.Context) <-chan Event {
	out := make(chan Event, b.State.buffer)

	var wg sync.WaitGroup
	wg.Add(4)
	go forward(ctx, &wg, b.State.Subscribe(), out, stateEvent)
	go forward(ctx, &wg, b.Metadata.Subscribe(), out, metadataEvent)
	go forward(ctx, &wg, b.Position.Subscribe(), out, millisEvent(PositionChanged))
	go forward(ctx, &wg, b.Duration.Subscribe(), out, millisEvent(DurationChanged))

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func forward[T any](ctx context.Context, wg *sync.WaitGroup, in <-chan T, out chan<- Event, convert func(T) Event) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- convert(v):
			case <-ctx.Done():
				return
			}
		}
	}
}
