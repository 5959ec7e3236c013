/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/time/rate"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/datastore"
	rmerrors "github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

const (
	// PartitionKey and SortKey are the key attributes of the backing table.
	PartitionKey = "PK"
	SortKey      = "SK"
	// EntityTypeAttribute records which mapped table an item belongs to.
	EntityTypeAttribute = "EntityType"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// Store implements datastore.Store on a single DynamoDB table. Every mapped
// table shares it: items are addressed by
//
//	PK = <KEYSPACE>#<TABLE>#<partition key>
//	SK = <clustering keys joined by #>, or PK itself for single column keys
//
// and carry one attribute per column.
type Store struct {
	client    API
	tableName string
	tables    datastore.TableLookup
	limiter   *rate.Limiter
	retry     RetryOptions
	logger    *slog.Logger
}

// RetryOptions controls retries of throttled requests.
type RetryOptions struct {
	MaxRetries int
	Backoff    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithRateLimit caps requests per second issued by the store.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Store) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithRetry sets the retry policy for throttled requests.
func WithRetry(opts RetryOptions) Option {
	return func(s *Store) { s.retry = opts }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewDynamoDBClient initializes a DynamoDB client. Empty credentials fall
// back to the default AWS credential chain; a non-empty endpoint points the
// client at DynamoDB Local or another compatible service.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(awsRegion)}
	if awsAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// New constructs a Store over the DynamoDB table tableName. tables supplies
// the column types and key order of each mapped table.
func New(client API, tableName string, tables datastore.TableLookup, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, rmerrors.NewValidationError("client", "DynamoDB client is required")
	}
	if tableName == "" {
		return nil, rmerrors.NewValidationError("tableName", "DynamoDB table name is required")
	}
	if tables == nil {
		return nil, rmerrors.NewValidationError("tables", "table definitions are required")
	}
	s := &Store{
		client:    client,
		tableName: tableName,
		tables:    tables,
		retry:     RetryOptions{MaxRetries: 3, Backoff: 100 * time.Millisecond},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("DynamoDB store initialized", "table", tableName)
	return s, nil
}

// FetchOne retrieves the item for q.Where. It returns nil if no item exists.
func (s *Store) FetchOne(ctx context.Context, q *storagemodels.Select) (*storagemodels.Row, error) {
	def, key, err := s.resolve(q.Keyspace, q.Table, q.Where)
	if err != nil {
		return nil, err
	}

	var out *sdk.GetItemOutput
	err = s.do(ctx, func() error {
		var err error
		out, err = s.client.GetItem(ctx, &sdk.GetItemInput{
			TableName:      &s.tableName,
			Key:            key,
			ConsistentRead: aws.Bool(true),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	row := storagemodels.NewRow()
	for _, c := range def.Columns {
		v, err := decode(c.Type, out.Item[c.Name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		row.Set(c.Name, c.Type, v)
	}
	return row, nil
}

// Upsert writes the columns of u with a single UpdateItem call, creating the
// item when it does not exist.
func (s *Store) Upsert(ctx context.Context, u *storagemodels.Upsert) error {
	def, ok := s.tables.Table(u.Keyspace, u.Table)
	if !ok {
		return rmerrors.NewNotFoundError("table", u.Keyspace+"."+u.Table)
	}
	where, err := u.Predicate(def.PrimaryKey)
	if err != nil {
		return rmerrors.NewValidationError("key", err.Error())
	}
	key, err := itemKey(def, where)
	if err != nil {
		return err
	}

	updates := make(map[string]types.AttributeValue, len(u.Values)+1)
	for _, a := range u.Values {
		typ, ok := def.ColumnType(a.Column)
		if !ok {
			return rmerrors.NewValidationError(a.Column, fmt.Sprintf("unknown column in %s", def.QualifiedName()))
		}
		av, err := encode(typ, a.Value)
		if err != nil {
			return fmt.Errorf("column %q: %w", a.Column, err)
		}
		updates[a.Column] = av
	}
	entityType, err := attributevalue.Marshal(def.Name)
	if err != nil {
		return fmt.Errorf("failed to marshal entity type: %w", err)
	}
	updates[EntityTypeAttribute] = entityType

	updateExpr, exprAttrNames, exprAttrValues := buildUpdateExpression(updates)
	err = s.do(ctx, func() error {
		_, err := s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
			TableName:                 &s.tableName,
			Key:                       key,
			UpdateExpression:          &updateExpr,
			ExpressionAttributeNames:  exprAttrNames,
			ExpressionAttributeValues: exprAttrValues,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("UpdateItem failed: %w", err)
	}
	return nil
}

// Delete removes the item for d.Where.
func (s *Store) Delete(ctx context.Context, d *storagemodels.Delete) error {
	_, key, err := s.resolve(d.Keyspace, d.Table, d.Where)
	if err != nil {
		return err
	}
	err = s.do(ctx, func() error {
		_, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &s.tableName,
			Key:       key,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// Close implements datastore.Store. The SDK client holds no resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) resolve(keyspace, table string, where storagemodels.Predicate) (*storagemodels.TableDef, map[string]types.AttributeValue, error) {
	def, ok := s.tables.Table(keyspace, table)
	if !ok {
		return nil, nil, rmerrors.NewNotFoundError("table", keyspace+"."+table)
	}
	key, err := itemKey(def, where)
	if err != nil {
		return nil, nil, err
	}
	return def, key, nil
}

// itemKey builds the PK/SK of the item selected by where. The partition key
// is KEYSPACE#TABLE#first key part so tables of different keyspaces never
// share items.
func itemKey(def *storagemodels.TableDef, where storagemodels.Predicate) (map[string]types.AttributeValue, error) {
	parts, err := def.KeyOf(where)
	if err != nil {
		return nil, rmerrors.NewValidationError("key", err.Error())
	}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}

	pk := strings.ToUpper(url.QueryEscape(def.Keyspace)+"#"+def.Name) + "#" + parts[0]
	sk := pk
	if len(parts) > 1 {
		sk = strings.Join(parts[1:], "#")
	}
	return map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: pk},
		SortKey:      &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// buildUpdateExpression transforms a map of attribute->value into:
//   - an "update expression" (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Attributes are numbered in name order so the expression is stable.
func buildUpdateExpression(updates map[string]types.AttributeValue) (string, map[string]string, map[string]types.AttributeValue) {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)

	setClauses := make([]string, 0, len(names))
	exprAttrNames := make(map[string]string, len(names))
	exprAttrValues := make(map[string]types.AttributeValue, len(names))
	for i, name := range names {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = name
		exprAttrValues[placeholderValue] = updates[name]
	}
	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues
}

// encode converts a Go value into the attribute stored for a column of type
// wire: BOOL for booleans, N for numbers, B for blobs and S for the canonical
// text of everything else.
func encode(wire column.Type, v any) (types.AttributeValue, error) {
	native, err := column.Encode(wire, v)
	if err != nil {
		return nil, err
	}
	if native == nil {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}

	switch wire {
	case column.Boolean, column.Blob:
		return attributevalue.Marshal(native)
	case column.Int, column.Bigint, column.Counter, column.Varint, column.Float, column.Double, column.Decimal:
		text, err := column.Format(wire, native)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberN{Value: text}, nil
	}
	text, err := column.Format(wire, native)
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberS{Value: text}, nil
}

// decode converts a stored attribute back into the native wire value of a
// column of type wire. A missing attribute is a null column.
func decode(wire column.Type, av types.AttributeValue) (any, error) {
	switch x := av.(type) {
	case nil:
		return nil, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberBOOL:
		var b bool
		if err := attributevalue.Unmarshal(x, &b); err != nil {
			return nil, err
		}
		return column.Encode(wire, b)
	case *types.AttributeValueMemberB:
		var b []byte
		if err := attributevalue.Unmarshal(x, &b); err != nil {
			return nil, err
		}
		return column.Encode(wire, b)
	case *types.AttributeValueMemberN:
		return column.Parse(wire, x.Value)
	case *types.AttributeValueMemberS:
		return column.Parse(wire, x.Value)
	}
	return nil, rmerrors.NewUnsupportedTypeError("", fmt.Sprintf("%T", av))
}
