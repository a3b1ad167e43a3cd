package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/oklog/ulid/v2"

	"github.com/stockroomhq/stockroom/keyspace"
)

// Store provides typed access to the single inventory table. It owns key
// computation on write, managed timestamps and error translation; business
// rules live above it.
type Store struct {
	client API
	table  string
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source. Used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a Store over the given table.
func New(client API, table string, opts ...Option) *Store {
	s := &Store{
		client: client,
		table:  table,
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the physical table name.
func (s *Store) Table() string { return s.table }

// Now returns the store's current time. Callers composing transactions use
// it so their timestamps agree with the store's managed stamps.
func (s *Store) Now() time.Time { return s.now() }

// NextID returns a fresh id from the store's generator, for callers that
// build entities for TransactPut rather than Create.
func (s *Store) NextID() string { return s.newID() }

// Create writes a new item, generating a time-sortable unique id first when
// the entity type requires one. Returns ErrDuplicateKey if the primary key
// is already occupied.
func Create[T Entity](ctx context.Context, s *Store, entity T) (T, error) {
	var zero T

	if gen, ok := any(&entity).(IDGenerator); ok && gen.GeneratedID() == "" {
		gen.SetGeneratedID(s.newID())
	}

	item, err := s.marshalItem(entity)
	if err != nil {
		return zero, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	item["createdAt"] = &types.AttributeValueMemberS{Value: now}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: now}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return zero, ErrDuplicateKey
		}
		return zero, err
	}

	return unmarshalItem[T](item)
}

// Get fetches an entity by primary key. Only PK and SK of the key record are
// consulted.
func Get[T Entity](ctx context.Context, s *Store, primary keyspace.Keys) (T, error) {
	var zero T

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       primaryKey(primary),
	})
	if err != nil {
		return zero, err
	}
	if out.Item == nil {
		return zero, ErrNotFound
	}

	return unmarshalItem[T](out.Item)
}

// Find queries one partition of the primary key or a secondary index.
// Returns an empty slice, not an error, when nothing matches.
func Find[T Entity](ctx context.Context, s *Store, q Query) ([]T, error) {
	pkAttr, skAttr := keyspace.IndexAttrs(q.Index)
	if pkAttr == "" {
		return nil, fmt.Errorf("store: unknown index %q", q.Index)
	}

	keyCond := "#pk = :pk"
	names := map[string]string{"#pk": pkAttr}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: q.PartitionKey},
	}
	if q.SortPrefix != "" {
		keyCond += " AND begins_with(#sk, :sk)"
		names["#sk"] = skAttr
		values[":sk"] = &types.AttributeValueMemberS{Value: q.SortPrefix}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}
	if q.Descending {
		input.ScanIndexForward = aws.Bool(false)
	}

	items := make([]T, 0)
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			entity, err := unmarshalItem[T](raw)
			if err != nil {
				return nil, err
			}
			items = append(items, entity)
			if q.Limit > 0 && int32(len(items)) >= q.Limit {
				return items, nil
			}
		}
	}

	return items, nil
}

// Update rewrites an existing item with the entity's current field values,
// recomputing every key projection. Returns ErrNotFound if the primary key
// does not exist. Callers load the entity, apply their patch and pass the
// result; createdAt is preserved from the loaded entity.
func Update[T Entity](ctx context.Context, s *Store, entity T) (T, error) {
	var zero T

	item, err := s.marshalItem(entity)
	if err != nil {
		return zero, err
	}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	return unmarshalItem[T](item)
}

// Remove deletes an item by primary key. Returns ErrNotFound if absent.
func Remove(ctx context.Context, s *Store, primary keyspace.Keys) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 primaryKey(primary),
		ConditionExpression: aws.String("attribute_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Scan walks the whole table and returns every item of T's entity type.
// Used only for access patterns no index serves.
func Scan[T Entity](ctx context.Context, s *Store) ([]T, error) {
	var probe T

	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.table),
		FilterExpression:         aws.String("#et = :et"),
		ExpressionAttributeNames: map[string]string{"#et": "entityType"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":et": &types.AttributeValueMemberS{Value: probe.EntityType()},
		},
	}

	items := make([]T, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			entity, err := unmarshalItem[T](raw)
			if err != nil {
				return nil, err
			}
			items = append(items, entity)
		}
	}

	return items, nil
}

// ConditionalPut is one item of a write transaction.
type ConditionalPut struct {
	Entity Entity

	// Condition is a DynamoDB condition expression evaluated against the
	// item at the entity's primary key. Empty means unconditional.
	Condition string

	// Names and Values supply the expression's attribute placeholders.
	Names  map[string]string
	Values map[string]types.AttributeValue

	// New stamps createdAt; otherwise createdAt is carried from the
	// entity's loaded value.
	New bool
}

// TransactPut writes all items atomically. When a condition check fails the
// returned error is a *ConditionFailedError identifying the failed item, so
// callers can distinguish a lost optimistic race from a genuine duplicate.
func (s *Store) TransactPut(ctx context.Context, puts ...ConditionalPut) error {
	now := s.now().UTC().Format(time.RFC3339)

	writes := make([]types.TransactWriteItem, 0, len(puts))
	for _, p := range puts {
		item, err := s.marshalItem(p.Entity)
		if err != nil {
			return err
		}
		item["updatedAt"] = &types.AttributeValueMemberS{Value: now}
		if p.New {
			item["createdAt"] = &types.AttributeValueMemberS{Value: now}
		}

		put := &types.Put{
			TableName: aws.String(s.table),
			Item:      item,
		}
		if p.Condition != "" {
			put.ConditionExpression = aws.String(p.Condition)
			if len(p.Names) > 0 {
				put.ExpressionAttributeNames = p.Names
			}
			if len(p.Values) > 0 {
				put.ExpressionAttributeValues = p.Values
			}
		}
		writes = append(writes, types.TransactWriteItem{Put: put})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	return mapTransactionError(err)
}

// mapTransactionError surfaces the index of the first item whose condition
// check failed; other cancellation causes pass through unchanged.
func mapTransactionError(err error) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return &ConditionFailedError{Index: i}
			}
		}
	}
	return err
}

// marshalItem converts an entity to its item form: marshaled fields plus the
// computed key attributes and the type discriminator. Key attributes with an
// empty value are omitted so withheld projections (the low-stock index) drop
// out of their GSI.
func (s *Store) marshalItem(e Entity) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", e.EntityType(), err)
	}

	k := e.Keys()
	item["pk"] = &types.AttributeValueMemberS{Value: k.PK}
	item["sk"] = &types.AttributeValueMemberS{Value: k.SK}
	setKeyAttr(item, "gsi1pk", k.GSI1PK)
	setKeyAttr(item, "gsi1sk", k.GSI1SK)
	setKeyAttr(item, "gsi2pk", k.GSI2PK)
	setKeyAttr(item, "gsi2sk", k.GSI2SK)
	setKeyAttr(item, "gsi3pk", k.GSI3PK)
	setKeyAttr(item, "gsi3sk", k.GSI3SK)
	item["entityType"] = &types.AttributeValueMemberS{Value: e.EntityType()}

	return item, nil
}

func setKeyAttr(item map[string]types.AttributeValue, attr, value string) {
	if value == "" {
		delete(item, attr)
		return
	}
	item[attr] = &types.AttributeValueMemberS{Value: value}
}

func unmarshalItem[T Entity](raw map[string]types.AttributeValue) (T, error) {
	var entity T
	if err := attributevalue.UnmarshalMap(raw, &entity); err != nil {
		return entity, fmt.Errorf("unmarshal %s: %w", entity.EntityType(), err)
	}
	return entity, nil
}

func primaryKey(k keyspace.Keys) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: k.PK},
		"sk": &types.AttributeValueMemberS{Value: k.SK},
	}
}
