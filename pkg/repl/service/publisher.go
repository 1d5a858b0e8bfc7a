package repl

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultEventName    = "lispy.evaluated"
	DefaultPublishRate  = 0
	DefaultPublishBurst = 100
	DefaultBatchSize    = 1000
	AckTimeout          = 60 * time.Second
	BatchAckTimeout     = 30 * time.Second
)

// AsyncPublisher is the part of the gravity adapter connector used to emit events.
type AsyncPublisher interface {
	PublishAsync(eventName string, payload []byte, meta map[string]string) (nats.PubAckFuture, error)
	PublishAsyncComplete() <-chan struct{}
}

type EventPublisher struct {
	connector  AsyncPublisher
	eventName  string
	clientName string
	limiter    *rate.Limiter
	batchSize  int
	counter    uint64
	failed     int
	ackFutures []nats.PubAckFuture
	mutex      sync.Mutex
}

// NewLimiter builds the publish limiter. A rate of zero or less disables throttling.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {

	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// NewEventPublisher creates a publisher which checks acknowledgements every
// batchSize events.
func NewEventPublisher(connector AsyncPublisher, eventName string, clientName string, limiter *rate.Limiter, batchSize int) *EventPublisher {

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EventPublisher{
		connector:  connector,
		eventName:  eventName,
		clientName: clientName,
		limiter:    limiter,
		batchSize:  batchSize,
		ackFutures: make([]nats.PubAckFuture, 0, batchSize),
	}
}

func (p *EventPublisher) Record(rec *Record) error {

	err := p.limiter.Wait(context.Background())
	if err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	seq := atomic.AddUint64(&p.counter, 1)
	meta := map[string]string{
		"Nats-Msg-Id": fmt.Sprintf("%s-%d-%d", p.clientName, rec.Time.UnixNano(), seq),
	}

	future, err := p.connector.PublishAsync(p.eventName, payload, meta)
	if err != nil {
		return errors.Wrap(err, "failed to publish evaluation event")
	}

	log.Trace("Nats-Msg-Id: ", meta["Nats-Msg-Id"])

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.ackFutures = append(p.ackFutures, future)
	if len(p.ackFutures) >= p.batchSize {
		p.failed += p.checkAcks(BatchAckTimeout)
	}

	return nil
}

// checkAcks waits for every outstanding acknowledgement and returns the
// number of failed publishes. The caller holds the mutex.
func (p *EventPublisher) checkAcks(timeout time.Duration) int {

	failed := 0
	for _, future := range p.ackFutures {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		select {
		case <-future.Ok():
		case err := <-future.Err():
			log.Warn("Failed to publish evaluation event: ", err)
			failed++
		case <-ctx.Done():
			log.Warn("Timeout waiting for acknowledgement")
			failed++
		}
		cancel()
	}

	p.ackFutures = p.ackFutures[:0]

	return failed
}

// Pending returns the number of publishes still waiting for acknowledgement.
func (p *EventPublisher) Pending() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.ackFutures)
}

// Published returns the number of events handed to the connector.
func (p *EventPublisher) Published() uint64 {
	return atomic.LoadUint64(&p.counter)
}

// Flush waits for outstanding acknowledgements and reports how many publishes
// failed since the previous flush.
func (p *EventPublisher) Flush(timeout time.Duration) (int, error) {

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case <-p.connector.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, errors.Errorf("timeout waiting for acknowledgements after %s", timeout)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	failed := p.failed + p.checkAcks(timeout)
	p.failed = 0

	return failed, nil
}
