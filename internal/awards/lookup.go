package awards

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/movieawards/awardlookup/pkg/dynamo"
)

// Store is what Lookup needs from DynamoDB.
type Store interface {
	dynamo.Querier
	dynamo.Putter
}

// Lookup keeps Dynamo dependency.
type Lookup struct {
	db    Store
	table string
	codec dynamo.Codec
}

// NewLookup creates instance of Lookup.
func NewLookup(db Store, table string) *Lookup {
	return &Lookup{db: db, table: table, codec: dynamo.DefaultCodec()}
}

// Find returns every item matching p. Items keep all their attributes, not
// only the ones modelled by MovieAward. No match gives an empty list.
func (l *Lookup) Find(ctx context.Context, p Params) ([]map[string]interface{}, error) {
	input, err := BuildQuery(l.table, p)
	if err != nil {
		return nil, err
	}

	out, err := l.db.Query(ctx, input)
	if err != nil {
		return nil, err
	}

	items := []map[string]interface{}{}
	if len(out.Items) == 0 {
		return items, nil
	}
	err = l.codec.UnmarshalListOfMaps(out.Items, &items)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal awards: %w", err)
	}
	return items, nil
}

// Put stores a.
func (l *Lookup) Put(ctx context.Context, a MovieAward) error {
	attrs, err := l.codec.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("could not marshal award: %w", err)
	}

	_, err = l.db.PutItem(ctx, &dynamodb.PutItemInput{
		Item:      attrs,
		TableName: aws.String(l.table),
	})
	return err
}
