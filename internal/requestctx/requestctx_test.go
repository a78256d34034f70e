package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", CallerID(ctx))

	ctx = SetCallerID(ctx, "alice")
	assert.Equal(t, "alice", CallerID(ctx))

	ctx = SetCallerID(ctx, "bob")
	assert.Equal(t, "bob", CallerID(ctx))
}
