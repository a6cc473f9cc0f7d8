package awards

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Attribute names of the awards table.
const (
	AttrMovieID   = "movieId"
	AttrAwardBody = "awardBody"
	AttrNumAwards = "numAwards"
)

// ErrMissingIdentity is returned when a query is built without movie id or award body.
var ErrMissingIdentity = errors.New("missing movie id or award body")

// BuildQuery builds the query selecting the awards of one movie from one
// awarding body. When p.Min is set only items with at least that many awards
// are returned.
func BuildQuery(table string, p Params) (*dynamodb.QueryInput, error) {
	if !p.HasIdentity() {
		return nil, ErrMissingIdentity
	}

	builder := expression.NewBuilder().
		WithKeyCondition(
			expression.KeyAnd(
				expression.KeyEqual(expression.Key(AttrMovieID), expression.Value(*p.MovieID)),
				expression.KeyEqual(expression.Key(AttrAwardBody), expression.Value(p.AwardBody))))
	if p.Min != nil {
		builder = builder.WithFilter(
			expression.Name(AttrNumAwards).GreaterThanEqual(expression.Value(*p.Min)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return &dynamodb.QueryInput{
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		TableName:                 aws.String(table),
	}, nil
}
