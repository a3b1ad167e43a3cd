package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/stockroomhq/stockroom/keyspace"
)

// Entity is implemented by every type stored in the inventory table.
type Entity interface {
	// Keys returns the full key record for the entity's current field
	// values, including any conditional secondary-index projections.
	Keys() keyspace.Keys

	// EntityType returns the type discriminator stored on every item.
	EntityType() string
}

// IDGenerator is implemented by entities whose id the store generates on
// create. Entities with a composite natural key (inventory levels, order
// line items) do not implement it.
type IDGenerator interface {
	GeneratedID() string
	SetGeneratedID(id string)
}

// API is the subset of the DynamoDB client the store uses. *dynamodb.Client
// satisfies it; tests substitute an in-memory fake.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Query defines parameters for Find.
type Query struct {
	// Index selects a secondary index by name, or the primary key when "".
	Index string

	// PartitionKey is the exact partition key value to match.
	PartitionKey string

	// SortPrefix restricts matches to sort keys with this prefix. Empty
	// matches the whole partition.
	SortPrefix string

	// Limit caps the number of returned items (0 = no limit).
	Limit int32

	// Descending returns items in reverse sort-key order (newest-first for
	// time-ordered sort keys).
	Descending bool
}
