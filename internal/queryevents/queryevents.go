// Package queryevents publishes issued-query events to Kafka for audit
// and usage analysis. Publishing is best-effort and never blocks the
// query path.
package queryevents

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

type Event struct {
	Kind     string    `json:"kind"`
	Release  int       `json:"release"`
	Cmd      string    `json:"cmd"`
	URL      string    `json:"url"`
	Cached   bool      `json:"cached"`
	Duration int64     `json:"duration_ms"`
	TS       time.Time `json:"ts"`
}

// producer is the slice of sarama.AsyncProducer the publisher needs;
// tests inject a fake.
type producer interface {
	Input() chan<- *sarama.ProducerMessage
	Errors() <-chan *sarama.ProducerError
	Close() error
}

type Publisher struct {
	topic   string
	events  chan Event
	prod    producer
	stopped chan struct{}
}

func NewPublisher(brokers []string, topic string, queueSize int) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("queryevents: create async producer: %w", err)
	}
	return newWith(prod, topic, queueSize), nil
}

func newWith(prod producer, topic string, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 1024
	}

	p := &Publisher{
		topic:   topic,
		events:  make(chan Event, queueSize),
		prod:    prod,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.events {
			b, err := json.Marshal(ev)
			if err != nil {
				log.Printf("queryevents: marshal error: %v", err)
				continue
			}
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic: p.topic,
				Value: sarama.ByteEncoder(b),
			}
		}
	}()

	go func() {
		for err := range p.prod.Errors() {
			if err != nil {
				log.Printf("queryevents: producer error: %v", err)
			}
		}
	}()

	return p
}

func (p *Publisher) Publish(ev Event) {
	select {
	case p.events <- ev:
	default:
		// queue full: drop rather than block the request path
	}
}

func (p *Publisher) Close() error {
	close(p.events)
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("queryevents: close producer: %w", err)
	}
	return nil
}
