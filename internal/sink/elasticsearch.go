package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	es "github.com/elastic/go-elasticsearch/v8"

	esconfig "github.com/tknemuru/kindergarten-collecting/internal/config/elasticsearch"
)

// ErrBulkFailed is returned when any document of a bulk request is rejected.
var ErrBulkFailed = errors.New("bulk indexing failed")

// NewElasticsearchClient creates a client from the sink configuration.
func NewElasticsearchClient(cfg esconfig.Config) (*es.Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}

// Elasticsearch indexes one document per record.
type Elasticsearch struct {
	client *es.Client
	index  string
}

// NewElasticsearch creates an Elasticsearch sink writing to index.
func NewElasticsearch(client *es.Client, index string) *Elasticsearch {
	return &Elasticsearch{client: client, index: index}
}

// Name implements Sink.
func (e *Elasticsearch) Name() string {
	return "elasticsearch"
}

type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// DocumentID returns the id a record is indexed under.
func DocumentID(runID string, position int) string {
	return runID + "-" + strconv.Itoa(position)
}

// Write sends the batch as a single bulk request.
func (e *Elasticsearch) Write(ctx context.Context, batch Batch) error {
	docs := batch.Documents()
	if len(docs) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, doc := range docs {
		action := bulkAction{Index: bulkMeta{Index: e.index, ID: DocumentID(doc.RunID, doc.Position)}}
		if err := enc.Encode(action); err != nil {
			return fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document %d: %w", doc.Position, err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(body.Bytes()),
		e.client.Bulk.WithContext(ctx),
		e.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("failed to send bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if !parsed.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			if failed == 0 {
				first = fmt.Sprintf("%s: %s: %s", result.ID, result.Error.Type, result.Error.Reason)
			}
			failed++
		}
	}
	return fmt.Errorf("%w: %d of %d documents rejected, first: %s", ErrBulkFailed, failed, len(docs), first)
}
