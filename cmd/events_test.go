package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldcup-api/apiserver/internal/mq"
)

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	handler := printEvent(&out)

	err := handler(context.Background(), mq.Message{
		ID:   "1",
		Data: []byte(`{"type":"auth.user_logged_in","userId":4,"email":"a@b.com","at":"2026-06-11T16:00:00Z"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-06-11T16:00:00Z auth.user_logged_in user=4 email=a@b.com\n", out.String())

	out.Reset()
	require.NoError(t, handler(context.Background(), mq.Message{ID: "2", Data: []byte("nope")}))
	assert.Contains(t, out.String(), "skip 2:")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"server"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"events", "tail"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
