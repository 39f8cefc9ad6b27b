package realtime

import "context"

// Broker fans payloads out to every live subscriber of a topic. Delivery is
// at most once; subscribers that fall behind lose messages and are expected
// to re-read from the store.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe returns a channel of payloads and a cancel func. The channel
	// is closed after cancel is called or ctx is done.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
}

const subscriberBuffer = 64
