package schema

import (
	"fmt"

	"github.com/hamba/avro/v2"
)

type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

type serde struct {
	encodeFn func(v any) ([]byte, error)
	decodeFn func([]byte, any) error
}

func (s serde) Encode(v any) ([]byte, error) {
	return s.encodeFn(v)
}

func (s serde) Decode(data []byte, v any) error {
	return s.decodeFn(data, v)
}

func NewSerdeInspectionLogV1() (Serde, error) {
	const op = "NewSerdeInspectionLogV1"
	return serdeConstructor(InspectionLogSchemaTextV1, op)
}

func serdeConstructor(schemaText string, op string) (Serde, error) {
	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return serde{}, fmt.Errorf("%s: %w", op, err)
	}
	return serde{
		encodeFn: AvroEncodeFn(avroSchema),
		decodeFn: AvroDecodeFn(avroSchema),
	}, nil
}
