package dynamotest

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestSetupTable(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTable(t, ctx, "MovieAwards", "../testdata/template.yml")

	out, err := db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String("MovieAwards"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "MovieAwards", aws.ToString(out.Table.TableName))
	assert.Len(t, out.Table.KeySchema, 2)

	cleanup()
	_, err = db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String("MovieAwards"),
	})
	var notFound *types.ResourceNotFoundException
	assert.True(t, errors.As(err, &notFound))
}
