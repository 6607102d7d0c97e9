// Package kafka mirrors saved inspection logs to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

// deliveryTimeout fails a record that the cluster has not acknowledged in
// time, so ProduceSync returns even while brokers are unreachable.
const deliveryTimeout = 10 * time.Second

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func producerClientOpts(seedBrokers []string, topic string, extra ...kgo.Opt) []kgo.Opt {
	return append([]kgo.Opt{
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopicAlways(),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
	}, extra...)
}

// ProducerClientOpt builds and pings a client producing to topic. extra
// is appended to the defaults, e.g. [kgo.DialTLSConfig].
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		cl, err := kgo.NewClient(producerClientOpts(seedBrokers, topic, extra...)...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt uses an already built client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func inspectionLogToSchemaV1(v domain.InspectionLog) (s schema.InspectionLogV1) {
	s.ID = v.ID
	s.ProductID = v.ProductID
	s.ProductName = v.ProductName
	s.ShippingOrderNo = v.ShippingOrderNo
	s.CheckDate = v.CheckDate
	s.Inspector = v.Inspector
	s.Notes = v.Notes
	s.Status = string(v.Status)
	s.AIAnalysis = v.AIAnalysis
	s.CreatedAt = v.CreatedAt
	return
}
