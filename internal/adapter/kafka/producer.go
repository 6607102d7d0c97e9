package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.JournalPublisher = (*JournalProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A JournalProducer publishes [domain.InspectionLog] keyed by log id.
type JournalProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewJournalProducer(
	opts ...ProducerOpt,
) (JournalProducer, error) {
	const op = "NewJournalProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return JournalProducer{}, opErr(err, op)
		}
	}

	opPrefix := "JournalProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return JournalProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p JournalProducer) Close() {
	p.producer.close()
}

func (p JournalProducer) PublishLog(
	ctx context.Context, v domain.InspectionLog,
) error {
	const op = "PublishLog"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p JournalProducer) createRecord(
	v domain.InspectionLog,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := inspectionLogToSchemaV1(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.ID), Value: b}, nil
}
