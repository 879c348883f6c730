package quarry

import (
	"context"
	"fmt"
	"reflect"
)

// Retriever loads full records for ids found by the search, typically from
// the system of record. ids are in hit order and the returned rows should be
// too. The result must be list-like: any slice or array, or a value with an
// Items() []any method. Anything else fails with ErrInvalidRetrieverResult.
type Retriever func(ctx context.Context, ids []string) (any, error)

// ItemsLister is a collection that exposes its elements.
type ItemsLister interface {
	Items() []any
}

// Retrieve adapts a typed loader into a Retriever.
//
//	q.Retriever(quarry.Retrieve(repo.FindTicketsByID))
func Retrieve[T any](fn func(ctx context.Context, ids []string) ([]T, error)) Retriever {
	return func(ctx context.Context, ids []string) (any, error) {
		return fn(ctx, ids)
	}
}

// callRetriever runs r and normalizes its result into rows.
func callRetriever(ctx context.Context, r Retriever, ids []string) ([]any, error) {
	result, err := r(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("retriever: %w", err)
	}
	return toRows(result)
}

func toRows(result any) ([]any, error) {
	switch v := result.(type) {
	case nil:
		return nil, fmt.Errorf("%w: got nil", ErrInvalidRetrieverResult)
	case []any:
		return v, nil
	case ItemsLister:
		items := v.Items()
		if items == nil {
			items = []any{}
		}
		return items, nil
	}

	rv := reflect.ValueOf(result)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		rows := make([]any, rv.Len())
		for i := range rows {
			rows[i] = rv.Index(i).Interface()
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidRetrieverResult, result)
	}
}
