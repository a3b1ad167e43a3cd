package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/stockroomhq/stockroom/keyspace"
)

// schemaMarkerKey addresses the single item recording the table's schema
// format and version.
const schemaMarkerKey = "_SCHEMA"

// EnsureTable creates the table with its secondary indexes if it does not
// exist, then writes or verifies the schema marker item. A marker with a
// different format fails with ErrSchemaMismatch so an incompatible layout is
// caught at startup rather than as corrupted reads later.
func (s *Store) EnsureTable(ctx context.Context, schema keyspace.Schema) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("describe table %s: %w", s.table, err)
		}
		if err := s.createTable(ctx, schema); err != nil {
			return err
		}
	}

	return s.checkSchemaMarker(ctx, schema)
}

func (s *Store) createTable(ctx context.Context, schema keyspace.Schema) error {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(schema.Primary.PartitionAttr), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String(schema.Primary.SortAttr), AttributeType: types.ScalarAttributeTypeS},
	}
	gsis := make([]types.GlobalSecondaryIndex, 0, len(schema.GSIs))
	for _, gsi := range schema.GSIs {
		attrs = append(attrs,
			types.AttributeDefinition{AttributeName: aws.String(gsi.PartitionAttr), AttributeType: types.ScalarAttributeTypeS},
			types.AttributeDefinition{AttributeName: aws.String(gsi.SortAttr), AttributeType: types.ScalarAttributeTypeS},
		)
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(gsi.Name),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(gsi.PartitionAttr), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(gsi.SortAttr), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:            aws.String(s.table),
		AttributeDefinitions: attrs,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(schema.Primary.PartitionAttr), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(schema.Primary.SortAttr), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: gsis,
		BillingMode:            types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) checkSchemaMarker(ctx context.Context, schema keyspace.Schema) error {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: schemaMarkerKey},
			"sk": &types.AttributeValueMemberS{Value: schemaMarkerKey},
		},
	})
	if err != nil {
		return fmt.Errorf("read schema marker: %w", err)
	}

	if out.Item != nil {
		format := ""
		if v, ok := out.Item["format"].(*types.AttributeValueMemberS); ok {
			format = v.Value
		}
		if format != schema.Format {
			return fmt.Errorf("%w: table has %q, code expects %q", ErrSchemaMismatch, format, schema.Format)
		}
		return nil
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"pk":        &types.AttributeValueMemberS{Value: schemaMarkerKey},
			"sk":        &types.AttributeValueMemberS{Value: schemaMarkerKey},
			"format":    &types.AttributeValueMemberS{Value: schema.Format},
			"version":   &types.AttributeValueMemberS{Value: schema.Version},
			"createdAt": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		// Another instance won the race; its marker carries the same format.
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil
		}
		return fmt.Errorf("write schema marker: %w", err)
	}
	return nil
}
