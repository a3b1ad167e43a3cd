// Package storetest provides an in-memory stand-in for the DynamoDB client
// so store and service behavior can be tested hermetically. It implements
// the narrow request shapes the store emits, not the full DynamoDB
// expression language.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/stockroomhq/stockroom/keyspace"
)

// Client is an in-memory fake of the store's DynamoDB API.
//
// PreTransact, when set, runs at the start of each TransactWriteItems call,
// before the lock is taken and the conditions are evaluated. The hook may
// use the exported mutators (SetItem, SetAttr), which lock internally; tests
// use it to mutate items and force an optimistic-concurrency loss.
type Client struct {
	mu      sync.Mutex
	items   map[string]map[string]types.AttributeValue
	created bool

	PreTransact func(c *Client)

	// Sticky per-operation error injection. When set, the operation fails
	// with the given error instead of executing.
	GetErr      error
	PutErr      error
	DeleteErr   error
	QueryErr    error
	ScanErr     error
	TransactErr error
}

// New returns an empty fake with the table already provisioned.
func New() *Client {
	return &Client{
		items:   make(map[string]map[string]types.AttributeValue),
		created: true,
	}
}

// NewUnprovisioned returns a fake whose table does not exist yet, for
// exercising EnsureTable.
func NewUnprovisioned() *Client {
	c := New()
	c.created = false
	return c
}

// Len returns the number of stored items.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Item returns a copy of the raw item at (pk, sk), or nil.
func (c *Client) Item(pk, sk string) map[string]types.AttributeValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[itemKey(pk, sk)]
	if !ok {
		return nil
	}
	return copyItem(item)
}

// SetItem stores a raw item directly, bypassing conditions.
func (c *Client) SetItem(item map[string]types.AttributeValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[itemKeyOf(item)] = copyItem(item)
}

// SetAttr overwrites one attribute of the item at (pk, sk).
func (c *Client) SetAttr(pk, sk, attr string, value types.AttributeValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[itemKey(pk, sk)]; ok {
		item[attr] = value
	}
}

func (c *Client) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemKeyOf(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (c *Client) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if c.PutErr != nil {
		return nil, c.PutErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := itemKeyOf(params.Item)
	if params.ConditionExpression != nil {
		ok, err := c.evalCondition(*params.ConditionExpression, nil, nil, c.items[key])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	c.items[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (c *Client) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if c.DeleteErr != nil {
		return nil, c.DeleteErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := itemKeyOf(params.Key)
	if params.ConditionExpression != nil {
		ok, err := c.evalCondition(*params.ConditionExpression, nil, nil, c.items[key])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	delete(c.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *Client) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if c.QueryErr != nil {
		return nil, c.QueryErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	index := ""
	if params.IndexName != nil {
		index = *params.IndexName
	}
	pkAttr, skAttr := keyspace.IndexAttrs(index)
	if pkAttr == "" {
		return nil, fmt.Errorf("storetest: unknown index %q", index)
	}

	pkValue, sortPrefix, err := parseKeyCondition(
		aws.ToString(params.KeyConditionExpression),
		params.ExpressionAttributeNames,
		params.ExpressionAttributeValues,
	)
	if err != nil {
		return nil, err
	}

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if stringAttr(item, pkAttr) != pkValue {
			continue
		}
		if sortPrefix != "" && !strings.HasPrefix(stringAttr(item, skAttr), sortPrefix) {
			continue
		}
		matched = append(matched, copyItem(item))
	}

	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i], skAttr) < stringAttr(matched[j], skAttr)
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	if params.Limit != nil && int(*params.Limit) < len(matched) {
		matched = matched[:*params.Limit]
	}

	return &dynamodb.QueryOutput{
		Items: matched,
		Count: int32(len(matched)),
	}, nil
}

func (c *Client) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if c.ScanErr != nil {
		return nil, c.ScanErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if params.FilterExpression != nil {
			ok, err := evalEquality(
				*params.FilterExpression,
				params.ExpressionAttributeNames,
				params.ExpressionAttributeValues,
				item,
			)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		matched = append(matched, copyItem(item))
	}

	sort.Slice(matched, func(i, j int) bool {
		return itemKeyOf(matched[i]) < itemKeyOf(matched[j])
	})

	return &dynamodb.ScanOutput{
		Items: matched,
		Count: int32(len(matched)),
	}, nil
}

func (c *Client) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if c.TransactErr != nil {
		return nil, c.TransactErr
	}
	if c.PreTransact != nil {
		c.PreTransact(c)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// All conditions first; writes land only if every check passes.
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, w := range params.TransactItems {
		if w.Put == nil {
			return nil, fmt.Errorf("storetest: only Put transact items are supported")
		}
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		if w.Put.ConditionExpression == nil {
			continue
		}
		existing := c.items[itemKeyOf(w.Put.Item)]
		ok, err := c.evalCondition(
			*w.Put.ConditionExpression,
			w.Put.ExpressionAttributeNames,
			w.Put.ExpressionAttributeValues,
			existing,
		)
		if err != nil {
			return nil, err
		}
		if !ok {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, w := range params.TransactItems {
		c.items[itemKeyOf(w.Put.Item)] = copyItem(w.Put.Item)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (c *Client) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.created {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   params.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

func (c *Client) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.created {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}
	}
	c.created = true
	return &dynamodb.CreateTableOutput{}, nil
}

// evalCondition evaluates the condition grammar the store emits: clauses
// joined by " AND ", each one of attribute_exists(pk),
// attribute_not_exists(pk), or "#name = :value".
func (c *Client) evalCondition(expr string, names map[string]string, values map[string]types.AttributeValue, existing map[string]types.AttributeValue) (bool, error) {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case clause == "attribute_exists(pk)":
			if existing == nil {
				return false, nil
			}
		case clause == "attribute_not_exists(pk)":
			if existing != nil {
				return false, nil
			}
		case strings.Contains(clause, " = "):
			if existing == nil {
				return false, nil
			}
			ok, err := evalEquality(clause, names, values, existing)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		default:
			return false, fmt.Errorf("storetest: unsupported condition clause %q", clause)
		}
	}
	return true, nil
}

// evalEquality evaluates a single "#name = :value" clause against an item.
func evalEquality(clause string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) (bool, error) {
	parts := strings.SplitN(clause, " = ", 2)
	if len(parts) != 2 {
		return false, fmt.Errorf("storetest: malformed equality clause %q", clause)
	}
	attr, ok := names[strings.TrimSpace(parts[0])]
	if !ok {
		return false, fmt.Errorf("storetest: unresolved name %q", parts[0])
	}
	want, ok := values[strings.TrimSpace(parts[1])]
	if !ok {
		return false, fmt.Errorf("storetest: unresolved value %q", parts[1])
	}
	return attrEqual(item[attr], want), nil
}

// parseKeyCondition handles "#pk = :pk" optionally followed by
// " AND begins_with(#sk, :sk)".
func parseKeyCondition(expr string, names map[string]string, values map[string]types.AttributeValue) (pkValue, sortPrefix string, err error) {
	clauses := strings.Split(expr, " AND ")
	if len(clauses) == 0 || len(clauses) > 2 {
		return "", "", fmt.Errorf("storetest: unsupported key condition %q", expr)
	}

	pk, ok := values[":pk"]
	if !ok {
		return "", "", fmt.Errorf("storetest: key condition %q missing :pk", expr)
	}
	pkS, ok := pk.(*types.AttributeValueMemberS)
	if !ok {
		return "", "", fmt.Errorf("storetest: :pk is not a string")
	}

	if len(clauses) == 2 {
		if !strings.HasPrefix(strings.TrimSpace(clauses[1]), "begins_with(") {
			return "", "", fmt.Errorf("storetest: unsupported sort clause %q", clauses[1])
		}
		sk, ok := values[":sk"]
		if !ok {
			return "", "", fmt.Errorf("storetest: key condition %q missing :sk", expr)
		}
		skS, ok := sk.(*types.AttributeValueMemberS)
		if !ok {
			return "", "", fmt.Errorf("storetest: :sk is not a string")
		}
		sortPrefix = skS.Value
	}

	return pkS.Value, sortPrefix, nil
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case nil:
		return b == nil
	default:
		return false
	}
}

func stringAttr(item map[string]types.AttributeValue, attr string) string {
	if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func itemKeyOf(item map[string]types.AttributeValue) string {
	return itemKey(stringAttr(item, "pk"), stringAttr(item, "sk"))
}

func itemKey(pk, sk string) string {
	return pk + "\x00" + sk
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
