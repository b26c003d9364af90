package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = mtest.TestDb + ".mock"

// newMockT returns an mtest harness whose sub-tests talk to an in-process mock
// deployment instead of a server.
func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func okResponse(elems ...bson.E) bson.D {
	return mtest.CreateSuccessResponse(elems...)
}

func duplicateKeyWrite() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

// startedCommands drains the recorded command names in order.
func startedCommands(mt *mtest.T) []string {
	var names []string
	for _, evt := range mt.GetAllStartedEvents() {
		names = append(names, evt.CommandName)
	}
	return names
}

func nextStarted(mt *mtest.T) *event.CommandStartedEvent {
	mt.Helper()
	evt := mt.GetStartedEvent()
	if evt == nil {
		mt.Fatal("no command was sent")
	}
	return evt
}
