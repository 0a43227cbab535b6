/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package remote

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"

	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

type ElasticsearchConfig struct {
	Host  string
	Port  int
	Index string
	// Addresses overrides Host and Port when set.
	Addresses []string
}

type esGetResponse struct {
	Index  string      `json:"_index"`
	ID     string      `json:"_id"`
	Found  bool        `json:"found"`
	Source cache.Entry `json:"_source"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (cache.Client, error) {
	addresses := conf.Addresses
	if len(addresses) == 0 {
		addresses = []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)}
	}
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, err
	}
	return &esClient{
		Client: c,
		index:  conf.Index,
	}, nil
}

var _ cache.Client = (*esClient)(nil)

type esClient struct {
	*elasticsearch.Client
	index string
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

// documentID maps a cache key to an id that is safe in a URL path.
func documentID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (e *esClient) Get(ctx context.Context, key string) (*legal.ProcessedDocument, error) {
	res, err := e.Client.Get(e.index, documentID(key), e.Client.Get.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	} else if res.IsError() {
		return nil, errors.New(res.String())
	}

	var esresponse esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&esresponse); err != nil {
		return nil, err
	}
	if !esresponse.Found || esresponse.Source.Key != key {
		return nil, nil
	}
	return &esresponse.Source.Document, nil
}

func (e *esClient) Set(ctx context.Context, key string, doc legal.ProcessedDocument) error {
	data, err := json.Marshal(cache.Entry{Key: key, Document: doc})
	if err != nil {
		return err
	}

	res, err := e.Index(e.index, bytes.NewReader(data),
		e.Index.WithDocumentID(documentID(key)),
		e.Index.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}
