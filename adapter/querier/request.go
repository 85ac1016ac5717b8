package querier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/filter"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/sorter"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

const notAnObject = "request body must be a JSON object"

type envelope struct {
	Filter any `docstore:"filter"`
	Sort   any `docstore:"sort"`
	Data   any `docstore:"data"`
}

var envelopeDecoder = decoder.NewDecoder()

// ParsePagination reads the limit and offset parameters. Empty values take
// the defaults.
func ParsePagination(limit, offset string) (uint64, uint64, error) {
	l, err := parseUint("limit", limit, domain.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	o, err := parseUint("offset", offset, domain.DefaultOffset)
	if err != nil {
		return 0, 0, err
	}
	return l, o, nil
}

func parseUint(param, value string, def uint64) (uint64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrPagination{Param: param, Value: value}, err)
	}
	return n, nil
}

// ParseRequest decodes a request envelope {"filter": ..., "sort": ...,
// "data": ...} together with its pagination parameters. Every part of the
// envelope is optional and an empty body is an unfiltered query.
func ParseRequest(body []byte, limit, offset string) (domain.Request, error) {
	l, o, err := ParsePagination(limit, offset)
	if err != nil {
		return domain.Request{}, err
	}
	req := domain.Request{Query: domain.NewQuery(domain.WithListLimit(l), domain.WithListOffset(o))}

	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	raw, err := unmarshal(body)
	if err != nil {
		return domain.Request{}, err
	}

	var env envelope
	if err := envelopeDecoder.Decode(raw, &env); err != nil {
		return domain.Request{}, fmt.Errorf("%w: %w", domain.ErrMalformedFilter{Reason: notAnObject}, err)
	}

	if env.Filter != nil {
		f, err := filter.Decode(env.Filter)
		if err != nil {
			return domain.Request{}, err
		}
		req.Query.Filter = f
	}

	if env.Sort != nil {
		s, err := sorter.Decode(env.Sort)
		if err != nil {
			return domain.Request{}, err
		}
		req.Query.Sort = s
	}

	req.Data = env.Data
	return req, nil
}

func unmarshal(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedFilter{Reason: "invalid JSON"}, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.ErrMalformedFilter{Reason: "trailing data after request"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, domain.ErrMalformedFilter{Reason: notAnObject}
	}
	return obj, nil
}
