package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/arraygo/blobstore"
)

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DDBCommitStore implements blobstore.CommitStore on DynamoDB. Manifest
// blobs live in S3; DynamoDB conditional writes provide the atomic
// version advance that S3 lacks, so concurrent catalog writers cannot
// silently overwrite each other's manifests.
//
// Table schema:
//   - Partition key: catalog_uri (string), the S3 bucket/prefix
//   - Sort key: version (number), monotonically increasing
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name arraygo-commits \
//	  --attribute-definitions AttributeName=catalog_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=catalog_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	client     DDBClient
	tableName  string
	catalogURI string
}

// NewDDBCommitStore creates a commit store. catalogURI identifies the
// catalog ("s3://bucket/prefix") and is used as the partition key.
func NewDDBCommitStore(client DDBClient, tableName, catalogURI string) *DDBCommitStore {
	return &DDBCommitStore{
		client:     client,
		tableName:  tableName,
		catalogURI: catalogURI,
	}
}

var _ blobstore.CommitStore = (*DDBCommitStore)(nil)

// Latest returns the newest committed version and its manifest blob name.
// Version 0 means nothing has been committed yet.
func (s *DDBCommitStore) Latest(ctx context.Context) (uint64, string, error) {
	resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("catalog_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.catalogURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query commits: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute")
	}
	nameAttr, ok := item["manifest_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid manifest_name attribute")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse version: %w", err)
	}
	return version, nameAttr.Value, nil
}

// Commit publishes version pointing at manifestName. The conditional put
// only succeeds if no item with this version exists, so two writers racing
// on the same version leave exactly one winner.
func (s *DDBCommitStore) Commit(ctx context.Context, version uint64, manifestName string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"catalog_uri":   &types.AttributeValueMemberS{Value: s.catalogURI},
			"version":       &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"manifest_name": &types.AttributeValueMemberS{Value: manifestName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return blobstore.ErrConcurrentModification
		}
		return fmt.Errorf("commit version: %w", err)
	}
	return nil
}
