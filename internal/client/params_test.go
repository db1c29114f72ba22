package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArguments(t *testing.T) {
	args, err := BuildArguments("get_audit_logs", []string{
		"limit=5",
		"appId=shop",
		"follow=true",
		"name= spaced ",
		"manifest={\"kind\":\"App\"}",
		"id=12345678901234567890",
		"empty=",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"action":   "get_audit_logs",
		"limit":    float64(5),
		"appId":    "shop",
		"follow":   true,
		"name":     " spaced ",
		"manifest": map[string]any{"kind": "App"},
		"id":       "12345678901234567890",
		"empty":    "",
	}, args)
}

func TestBuildArguments_Errors(t *testing.T) {
	for _, pairs := range [][]string{
		{"novalue"},
		{"=x"},
		{"action=list_subscriptions"},
	} {
		_, err := BuildArguments("show_context", pairs)
		assert.Error(t, err, pairs)
	}
}
