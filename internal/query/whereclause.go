// Package query turns raw request filters into Mongo queries.
//
// A WhereClause is an immutable value: each stage returns a refined copy,
// and nothing touches the database until the caller compiles the clause
// with Document and FindOptions. Counting with Document alone is therefore
// never affected by paging.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Keys consumed by the builder itself, never turned into filters.
var reservedKeys = map[string]bool{
	"search": true,
	"page":   true,
	"limit":  true,
}

// ParseQuery flattens url.Values into the filter mapping the builder works
// on. Bracket keys like rating[gte]=4 fold into {"rating": {"gte": "4"}};
// everything else keeps its first value as a plain string.
func ParseQuery(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		open := strings.IndexByte(key, '[')
		if open > 0 && strings.HasSuffix(key, "]") {
			field := key[:open]
			op := key[open+1 : len(key)-1]
			nested, ok := out[field].(map[string]any)
			if !ok {
				nested = make(map[string]any)
				out[field] = nested
			}
			nested[op] = vals[0]
			continue
		}
		out[key] = vals[0]
	}
	return out
}

type WhereClause struct {
	query map[string]any
	conds []bson.M
	skip  int64
	limit int64
}

func NewWhereClause(query map[string]any) WhereClause {
	return WhereClause{query: query}
}

func (w WhereClause) with(cond bson.M) WhereClause {
	conds := make([]bson.M, 0, len(w.conds)+1)
	conds = append(conds, w.conds...)
	w.conds = append(conds, cond)
	return w
}

// Search restricts to records whose name contains the search term,
// case-insensitively. No search key, no restriction.
func (w WhereClause) Search() WhereClause {
	term, _ := w.query["search"].(string)
	if term == "" {
		return w
	}
	return w.with(bson.M{"name": bson.M{"$regex": term, "$options": "i"}})
}

// Filter translates every non-reserved key into a predicate: gte/lte
// mappings become range comparisons, anything else an exact match.
func (w WhereClause) Filter() WhereClause {
	for key, value := range w.query {
		if reservedKeys[key] {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			rng := bson.M{}
			if x, ok := v["gte"]; ok {
				rng["$gte"] = coerce(x)
			}
			if x, ok := v["lte"]; ok {
				rng["$lte"] = coerce(x)
			}
			if len(rng) > 0 {
				w = w.with(bson.M{key: rng})
			}
		default:
			w = w.with(bson.M{key: coerce(v)})
		}
	}
	return w
}

// Pager applies 1-based paging. A missing or malformed page value means
// page 1.
func (w WhereClause) Pager(perPage int64) WhereClause {
	page := int64(1)
	if raw, ok := w.query["page"].(string); ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			page = n
		}
	}
	w.skip = (page - 1) * perPage
	w.limit = perPage
	return w
}

// PerPage returns the page size requested through the limit key, or
// fallback when absent or malformed.
func (w WhereClause) PerPage(fallback int64) int64 {
	if raw, ok := w.query["limit"].(string); ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// Document compiles the accumulated conditions into a single filter
// document. Conditions compose as conjunctions.
func (w WhereClause) Document() bson.M {
	switch len(w.conds) {
	case 0:
		return bson.M{}
	case 1:
		return w.conds[0]
	default:
		and := make([]bson.M, len(w.conds))
		copy(and, w.conds)
		return bson.M{"$and": and}
	}
}

// FindOptions carries the paging window. Counting uses Document alone, so
// skip/limit never leak into counts.
func (w WhereClause) FindOptions() *options.FindOptions {
	opts := options.Find()
	if w.limit > 0 {
		opts.SetSkip(w.skip)
		opts.SetLimit(w.limit)
	}
	return opts
}

// coerce makes numeric-looking strings compare numerically. Mongo will not
// range-compare a string against a stored number.
func coerce(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
