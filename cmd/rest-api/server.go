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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/swag"
	"golang.org/x/time/rate"

	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type contentType int

const (
	contentTypeText contentType = iota
	contentTypeHTML
)

var allowedContentTypeEnumMap = map[string]contentType{
	"text/plain": contentTypeText,
	"text/html":  contentTypeHTML,
	"":           contentTypeText,
}

const textKey = "text"

type server struct {
	controller controller
	limiter    *rate.Limiter
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.Health)

	docs := r.Group("/", s.rateLimit, validateBody, s.readText)
	docs.POST("/documents", s.Process)
	docs.POST("/classify", s.Classify)
	docs.POST("/citations", s.Citations)
	docs.POST("/entities", s.Entities)
}

func (s server) Health(c *gin.Context) {
	ready := s.controller.Ready()
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, map[string]interface{}{
		"status": code,
		"cache":  ready,
	})
}

func (s server) Process(c *gin.Context) {
	cfg, err := configFromQuery(c, s.controller.defaults)
	if err != nil {
		handleError(c, err)
		return
	}

	doc, err := s.controller.Process(c.Request.Context(), c.GetString(textKey), cfg)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s server) Classify(c *gin.Context) {
	cfg, err := configFromQuery(c, s.controller.defaults)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.controller.Classify(c.GetString(textKey), cfg.ClassificationThreshold))
}

func (s server) Citations(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Citations(c.GetString(textKey)))
}

func (s server) Entities(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Entities(c.GetString(textKey)))
}

// readText reads the request body into the context as plain text, stripping
// markup from html bodies.
func (s server) readText(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(http.StatusUnsupportedMediaType, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	body := io.Reader(c.Request.Body)
	if s.controller.maxBytes > 0 {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, s.controller.maxBytes)
	}

	var (
		source string
		err    error
	)
	switch ct {
	case contentTypeHTML:
		source, err = text.HTMLToText(body)
	default:
		var b []byte
		b, err = io.ReadAll(body)
		source = string(b)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(c, NewHttpError(http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	c.Set(textKey, source)
	c.Next()
}

func (s server) rateLimit(c *gin.Context) {
	if s.limiter != nil && !s.limiter.Allow() {
		handleError(c, NewHttpError(http.StatusTooManyRequests, errors.New("rate limit exceeded")))
		return
	}
	c.Next()
}

// configFromQuery overlays the chunk_size, overlap and threshold query
// parameters on defaults. The result is not validated.
func configFromQuery(c *gin.Context, defaults legal.Config) (legal.Config, error) {
	cfg := defaults
	if v, ok := c.GetQuery("chunk_size"); ok {
		size, err := swag.ConvertInt64(v)
		if err != nil {
			return cfg, NewHttpError(http.StatusBadRequest, fmt.Errorf("chunk_size must be an integer, got %q", v))
		}
		cfg.TargetChunkSize = int(size)
	}
	if v, ok := c.GetQuery("overlap"); ok {
		overlap, err := swag.ConvertInt64(v)
		if err != nil {
			return cfg, NewHttpError(http.StatusBadRequest, fmt.Errorf("overlap must be an integer, got %q", v))
		}
		cfg.Overlap = int(overlap)
	}
	if v, ok := c.GetQuery("threshold"); ok {
		threshold, err := swag.ConvertFloat64(v)
		if err != nil {
			return cfg, NewHttpError(http.StatusBadRequest, fmt.Errorf("threshold must be a number, got %q", v))
		}
		cfg.ClassificationThreshold = threshold
	}
	return cfg, nil
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
		return
	}
	br := bufio.NewReader(c.Request.Body)
	if _, err := br.Peek(1); err == io.EOF {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
		return
	}
	c.Request.Body = io.NopCloser(br)
	c.Next()
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, http.StatusInternalServerError, errors.New("abort called on nil error"))
		return
	}
	var httpErr HttpError
	switch {
	case errors.As(err, &httpErr):
		abort(c, httpErr.code, httpErr.error)
	case errors.Is(err, legal.ErrInvalidConfig):
		abort(c, http.StatusBadRequest, err)
	default:
		abort(c, http.StatusInternalServerError, err)
	}
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
