package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Notifier fans ledger change events out over Redis pub/sub. The outbox
// publisher pushes into per-owner channels and the watch endpoint streams
// them back out, so a browser sees its own writes land on other devices.
type Notifier struct {
	client        *redis.Client
	channelPrefix string
}

// NewNotifier creates a new Notifier.
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{
		client:        client,
		channelPrefix: "khata:changes:",
	}
}

// Publish sends a change event to every subscriber watching ownerID.
func (n *Notifier) Publish(ctx context.Context, ownerID string, payload []byte) error {
	return n.client.Publish(ctx, n.channelPrefix+ownerID, payload).Err()
}

// Subscribe returns a channel of change payloads for ownerID. The channel
// closes when ctx is cancelled or the returned stop func is called.
func (n *Notifier) Subscribe(ctx context.Context, ownerID string) (<-chan []byte, func(), error) {
	sub := n.client.Subscribe(ctx, n.channelPrefix+ownerID)

	// Force the subscription to be established before first use.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var stopped bool
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		_ = sub.Close()
	}

	return out, stop, nil
}
