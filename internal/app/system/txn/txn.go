// internal/app/system/txn/txn.go

// Package txn wraps Mongo multi-document transactions with detection of
// deployments that cannot run them (standalone servers, old DocDB). Callers
// that get IsNotSupported(err)==true must fall back to explicit compensating
// writes instead of silently leaving partial state behind.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside one session transaction: every write fn
// performs through the session context commits or aborts as a unit.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Command error codes Mongo returns when transactions cannot run:
// 20 IllegalOperation variants ("Transaction numbers are only allowed on a
// replica set member"), 51 IllegalOperation, 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (as opposed to a transaction that merely
// failed and could be retried).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return notSupportedCodes[ce.Code]
	}

	// Driver and server wrap the condition in several message shapes;
	// fall back to keyword sniffing.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation") {
			return true
		}
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
