package seed

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/docmock/internal/docpath"
	"github.com/jacentio/docmock/store"
)

// KeySeparator joins the values of composite keys into document ids.
const KeySeparator = "#"

// ErrInvalidKey is returned when an item's keys can't form a document id.
var ErrInvalidKey = errors.New("docmock: invalid item key")

// TableOptions configures FromTable.
type TableOptions struct {
	// TableName is the table to scan. Required.
	TableName string

	// KeyAttributes lists the attributes whose values, joined with
	// KeySeparator in this order, form each document id. String and number
	// values are used as-is, so an item whose id would contain "/" stops the
	// scan with ErrInvalidKey; binary values are base64url encoded. Required.
	KeyAttributes []string

	// PageSize limits the items returned per Scan call. Zero leaves it to DynamoDB.
	PageSize int32

	// ConsistentRead requests strongly consistent scans.
	ConsistentRead bool

	// Logger receives progress logs. Default: slog.Default()
	Logger *slog.Logger
}

func (o *TableOptions) validate() error {
	if o.TableName == "" {
		return errors.New("docmock: TableName is required")
	}
	if len(o.KeyAttributes) == 0 {
		return errors.New("docmock: KeyAttributes is required")
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// FromTable scans a DynamoDB table and writes every item into coll,
// replacing documents that already exist. It returns the number of
// documents written; on error, items from earlier pages stay written.
func FromTable(ctx context.Context, client dynamodb.ScanAPIClient, coll *store.CollectionRef, opts TableOptions) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	input := &dynamodb.ScanInput{
		TableName: aws.String(opts.TableName),
	}
	if opts.PageSize > 0 {
		input.Limit = aws.Int32(opts.PageSize)
	}
	if opts.ConsistentRead {
		input.ConsistentRead = aws.Bool(true)
	}

	written := 0
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return written, fmt.Errorf("scan %s: %w", opts.TableName, err)
		}
		for _, item := range page.Items {
			id, err := itemID(item, opts.KeyAttributes)
			if err != nil {
				return written, err
			}
			data, err := store.FromAttributeMap(item)
			if err != nil {
				return written, fmt.Errorf("item %s: %w", id, err)
			}
			if err := coll.Doc(id).Set(data); err != nil {
				return written, fmt.Errorf("item %s: %w", id, err)
			}
			written++
		}
		opts.Logger.Debug("seeded page", "table", opts.TableName, "items", len(page.Items))
	}

	opts.Logger.Info("seeded collection from table",
		"table", opts.TableName,
		"collection", coll.Path,
		"documents", written,
	)
	return written, nil
}

func itemID(item map[string]types.AttributeValue, names []string) (string, error) {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		var s string
		switch v := item[name].(type) {
		case *types.AttributeValueMemberS:
			s = v.Value
		case *types.AttributeValueMemberN:
			s = v.Value
		case *types.AttributeValueMemberB:
			s = base64.RawURLEncoding.EncodeToString(v.Value)
		case nil:
			return "", fmt.Errorf("%w: missing key attribute %q", ErrInvalidKey, name)
		default:
			return "", fmt.Errorf("%w: attribute %q has type %T", ErrInvalidKey, name, v)
		}
		parts = append(parts, s)
	}

	id := strings.Join(parts, KeySeparator)
	if err := docpath.CheckSegment(id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return id, nil
}
