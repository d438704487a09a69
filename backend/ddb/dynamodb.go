/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

// Client is the subset of the DynamoDB API the Store uses. *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

var _ Client = (*sdk.Client)(nil)

// Config describes how to reach a table.
type Config struct {
	Table     string `yaml:"table"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// record is the stored item, minus the key attributes.
type record struct {
	Data       []byte `dynamodbav:"Data"`
	ModifiedOn string `dynamodbav:"ModifiedOn"`
}

var macroPattern = regexp.MustCompile(`{key}`)

// Store is a DynamoDB implementation of repository.SimpleSync and repository.SimpleAsync
type Store struct {
	client    Client
	tableName string
	keys      map[string]string
	logger    *slog.Logger
	now       func() time.Time
}

var _ repository.KeyValue = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithKeyTemplate sets the template of a key attribute. Setting any template
// replaces the default PK/SK pair.
func WithKeyTemplate(attribute, template string) Option {
	return func(s *Store) {
		if s.keys == nil {
			s.keys = make(map[string]string)
		}
		s.keys[attribute] = template
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store over an existing client. Without key templates items
// are keyed PK="ITEM#{key}", SK="DATA".
func New(client Client, tableName string, opts ...Option) *Store {
	s := &Store{
		client:    client,
		tableName: tableName,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.keys) == 0 {
		s.keys = map[string]string{"PK": "ITEM#{key}", "SK": "DATA"}
	}
	return s
}

// NewDynamoDBClient initializes a DynamoDB client from cfg.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Open creates a client from cfg and returns a Store on cfg.Table.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Table == "" {
		return nil, errors.NewValidationError("table", "must not be empty")
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := New(client, cfg.Table, opts...)
	s.logger.Debug("dynamodb repository opened", "table", cfg.Table, "region", cfg.Region)
	return s, nil
}

func (s *Store) Delete(key string) error {
	return s.DeleteContext(context.Background(), key)
}

func (s *Store) Store(key string, data []byte) error {
	return s.StoreContext(context.Background(), key, data)
}

func (s *Store) Retrieve(key string) ([]byte, error) {
	return s.RetrieveContext(context.Background(), key)
}

func (s *Store) DeleteContext(ctx context.Context, key string) error {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &s.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return errors.NewBackendError("delete", key, err)
	}
	return nil
}

func (s *Store) StoreContext(ctx context.Context, key string, data []byte) error {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return err
	}

	if data == nil {
		data = []byte{}
	}
	av, err := attributevalue.MarshalMap(record{
		Data:       data,
		ModifiedOn: strfmt.DateTime(s.now().UTC()).String(),
	})
	if err != nil {
		return errors.NewSerializationError("dynamodb", "encode", err)
	}
	for k, v := range keyMap {
		av[k] = v
	}

	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	})
	if err != nil {
		return errors.NewBackendError("store", key, err)
	}
	return nil
}

func (s *Store) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &s.tableName,
		Key:            keyMap,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.NewBackendError("retrieve", key, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, errors.NewSerializationError("dynamodb", "decode", err)
	}
	if rec.Data == nil {
		return []byte{}, nil
	}
	return rec.Data, nil
}

// keyFor expands the key templates for key.
func (s *Store) keyFor(key string) (map[string]types.AttributeValue, error) {
	if key == "" {
		return nil, errors.NewValidationError("key", "must not be empty")
	}

	keyMap := make(map[string]types.AttributeValue, len(s.keys))
	for attr, template := range s.keys {
		keyMap[attr] = &types.AttributeValueMemberS{Value: macroPattern.ReplaceAllLiteralString(template, key)}
	}
	return keyMap, nil
}
