package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Codec converts between Go values and DynamoDB attribute values.
type Codec struct {
	encode func(*attributevalue.EncoderOptions)
	decode func(*attributevalue.DecoderOptions)
}

// DefaultCodec encodes empty sets as NULL and decodes numbers into float64
// rather than attributevalue.Number.
func DefaultCodec() Codec {
	return Codec{
		encode: func(o *attributevalue.EncoderOptions) {
			o.NullEmptySets = true
		},
		decode: func(o *attributevalue.DecoderOptions) {
			o.UseNumber = false
		},
	}
}

// MarshalMap encodes a struct or map into a DynamoDB item.
func (c Codec) MarshalMap(in interface{}) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.NewEncoder(c.encode).Encode(in)
	if err != nil {
		return nil, err
	}
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("cannot marshal %T into an item", in)
	}
	return m.Value, nil
}

// UnmarshalListOfMaps decodes items into out, which must be a pointer to a slice.
func (c Codec) UnmarshalListOfMaps(items []map[string]types.AttributeValue, out interface{}) error {
	l := make([]types.AttributeValue, 0, len(items))
	for _, item := range items {
		l = append(l, &types.AttributeValueMemberM{Value: item})
	}
	return attributevalue.NewDecoder(c.decode).Decode(&types.AttributeValueMemberL{Value: l}, out)
}
