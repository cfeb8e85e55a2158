// Package stream replays DynamoDB Streams events into a docmock collection.
//
// A Handler lets tests feed the same stream records a Lambda function would
// receive, keeping an in-memory mirror of a table in step with the events.
package stream

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/docmock/internal/docpath"
	"github.com/jacentio/docmock/store"
)

var (
	// ErrMissingImage is returned when an INSERT or MODIFY record carries no
	// new image, as with KEYS_ONLY stream views.
	ErrMissingImage = errors.New("docmock: stream record has no new image")

	// ErrInvalidKey is returned when a record's keys can't form a document id.
	ErrInvalidKey = errors.New("docmock: invalid stream record key")
)

// KeySeparator joins the values of composite keys into document ids.
const KeySeparator = "#"

// Config controls how records map onto documents.
type Config struct {
	// KeyAttributes lists the key attributes whose values, joined with
	// KeySeparator in this order, form the document id. String and number
	// values are used as-is, so a record whose id would contain "/" fails
	// with ErrInvalidKey; binary values are base64url encoded.
	// Default: the record's only key attribute.
	KeyAttributes []string
}

// Handler applies DynamoDB stream events to a collection.
type Handler struct {
	coll   *store.CollectionRef
	config Config
	logger *slog.Logger
}

// NewHandler creates a new stream handler writing into coll.
func NewHandler(coll *store.CollectionRef, config Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		coll:   coll,
		config: config,
		logger: logger,
	}
}

// HandleEvent applies every record of event in order. It stops at the first
// record that fails, mirroring how a Lambda batch is retried.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.processRecord(record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return fmt.Errorf("record %s: %w", record.EventID, err)
		}
	}
	return nil
}

// processRecord applies a single stream record.
func (h *Handler) processRecord(record events.DynamoDBEventRecord) error {
	switch record.EventName {
	case "INSERT", "MODIFY", "REMOVE":
	default:
		h.logger.Debug("skipping record", "eventID", record.EventID, "eventName", record.EventName)
		return nil
	}

	id, err := h.documentID(record.Change.Keys)
	if err != nil {
		return err
	}
	doc := h.coll.Doc(id)

	if record.EventName == "REMOVE" {
		h.logger.Info("replaying remove", "path", doc.Path)
		return doc.Delete()
	}

	if len(record.Change.NewImage) == 0 {
		return ErrMissingImage
	}
	data, err := ConvertImage(record.Change.NewImage)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}

	h.logger.Info("replaying write",
		"path", doc.Path,
		"eventName", record.EventName,
		"fields", len(data),
	)
	return doc.Set(data)
}

// documentID derives the document id from a record's key attributes.
func (h *Handler) documentID(keys map[string]events.DynamoDBAttributeValue) (string, error) {
	names := h.config.KeyAttributes
	if len(names) == 0 {
		if len(keys) != 1 {
			return "", fmt.Errorf("%w: %d key attributes and no KeyAttributes configured", ErrInvalidKey, len(keys))
		}
		for name := range keys {
			names = []string{name}
		}
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := keys[name]
		if !ok {
			return "", fmt.Errorf("%w: missing key attribute %q", ErrInvalidKey, name)
		}
		s, err := keyString(v)
		if err != nil {
			return "", fmt.Errorf("%w: attribute %q: %v", ErrInvalidKey, name, err)
		}
		parts = append(parts, s)
	}

	id := strings.Join(parts, KeySeparator)
	if err := docpath.CheckSegment(id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return id, nil
}

// keyString renders a key attribute. Binary keys are base64 (URL alphabet)
// encoded so they never contain a path separator.
func keyString(v events.DynamoDBAttributeValue) (string, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String(), nil
	case events.DataTypeNumber:
		return v.Number(), nil
	case events.DataTypeBinary:
		return base64.RawURLEncoding.EncodeToString(v.Binary()), nil
	}
	return "", fmt.Errorf("unsupported key type %v", v.DataType())
}

// ConvertImage converts a stream image into document fields.
func ConvertImage(image map[string]events.DynamoDBAttributeValue) (store.Map, error) {
	m := make(store.Map, len(image))
	for k, v := range image {
		sv, err := ConvertAttr(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		m[k] = sv
	}
	return m, nil
}

// ConvertAttr converts a stream attribute into a store value.
// Sets become arrays.
func ConvertAttr(v events.DynamoDBAttributeValue) (store.Value, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return store.String(v.String()), nil
	case events.DataTypeNumber:
		return store.ParseNumber(v.Number())
	case events.DataTypeBoolean:
		return store.Bool(v.Boolean()), nil
	case events.DataTypeNull:
		return store.Null{}, nil
	case events.DataTypeBinary:
		return store.Bytes(bytes.Clone(v.Binary())), nil
	case events.DataTypeList:
		list := v.List()
		arr := make(store.Array, len(list))
		for i, e := range list {
			ev, err := ConvertAttr(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case events.DataTypeMap:
		return ConvertImage(v.Map())
	case events.DataTypeStringSet:
		set := v.StringSet()
		arr := make(store.Array, len(set))
		for i, s := range set {
			arr[i] = store.String(s)
		}
		return arr, nil
	case events.DataTypeNumberSet:
		set := v.NumberSet()
		arr := make(store.Array, len(set))
		for i, s := range set {
			n, err := store.ParseNumber(s)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = n
		}
		return arr, nil
	case events.DataTypeBinarySet:
		set := v.BinarySet()
		arr := make(store.Array, len(set))
		for i, b := range set {
			arr[i] = store.Bytes(bytes.Clone(b))
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: stream attribute type %v", store.ErrUnsupportedType, v.DataType())
}
