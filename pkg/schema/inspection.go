package schema

import "github.com/hamba/avro/v2"

const InspectionLogSchemaTextV1 = `{
	"type": "record",
	"namespace": "qclog",
	"name": "inspection_log",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "shipping_order_no", "type": "string", "default": ""},
		{"name": "check_date", "type": "string"},
		{"name": "inspector", "type": "string"},
		{"name": "notes", "type": "string"},
		{"name": "status", "type": {
			"type": "enum",
			"name": "status",
			"symbols": ["PASS", "FAIL", "WARNING"],
			"default": "PASS"
		}},
		{"name": "ai_analysis", "type": "string", "default": ""},
		{"name": "created_at", "type": "long"}
	]
}`

type InspectionLogV1 struct {
	ID              string `avro:"id"`
	ProductID       string `avro:"product_id"`
	ProductName     string `avro:"product_name"`
	ShippingOrderNo string `avro:"shipping_order_no"`
	CheckDate       string `avro:"check_date"`
	Inspector       string `avro:"inspector"`
	Notes           string `avro:"notes"`
	Status          string `avro:"status"`
	AIAnalysis      string `avro:"ai_analysis"`
	CreatedAt       int64  `avro:"created_at"`
}

// InspectionLogV1Avro panics on an invalid schema text.
func InspectionLogV1Avro() avro.Schema {
	return avro.MustParse(InspectionLogSchemaTextV1)
}
