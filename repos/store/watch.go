package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// watchQuery streams the decoded result set of q to onChange on every change.
// The listener stops when ctx ends or the returned function is called; a
// store failure is delivered once and ends the listener.
func watchQuery[T any](
	ctx context.Context,
	q firestore.Query,
	op string,
	decode func(*firestore.DocumentSnapshot) (*T, error),
	onChange func([]T, error),
) func() {
	ctx, cancel := context.WithCancel(ctx)
	it := q.Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if !watchEnded(ctx, err) {
					onChange(nil, persistenceError(op, err))
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				if !watchEnded(ctx, err) {
					onChange(nil, persistenceError(op, err))
				}
				return
			}
			items := make([]T, 0, len(docs))
			for _, doc := range docs {
				item, err := decode(doc)
				if err != nil {
					onChange(nil, persistenceError(op, err))
					return
				}
				items = append(items, *item)
			}
			onChange(items, nil)
		}
	}()

	return cancel
}

// watchDoc streams a single document. A nil value means the document does not exist.
func watchDoc[T any](
	ctx context.Context,
	ref *firestore.DocumentRef,
	op string,
	decode func(*firestore.DocumentSnapshot) (*T, error),
	onChange func(*T, error),
) func() {
	ctx, cancel := context.WithCancel(ctx)
	it := ref.Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if !watchEnded(ctx, err) {
					onChange(nil, persistenceError(op, err))
				}
				return
			}
			if !snap.Exists() {
				onChange(nil, nil)
				continue
			}
			item, err := decode(snap)
			if err != nil {
				onChange(nil, persistenceError(op, err))
				return
			}
			onChange(item, nil)
		}
	}()

	return cancel
}

func watchEnded(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled
}
