package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"video-upscaler-backend/docs"
)

func TestSwaggerDocRenders(t *testing.T) {
	docs.SwaggerInfo.Host = "api.example.com"

	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "api.example.com", parsed["host"])

	paths, ok := parsed["paths"].(map[string]any)
	require.True(t, ok)
	for _, route := range []string{
		"/health",
		"/api/v1/replicate",
		"/api/v1/replicate/prediction",
		"/api/v1/replicate/webhook",
		"/api/v1/replicate/cancel-prediction",
		"/api/v1/cloudinary",
		"/api/v1/db",
	} {
		assert.Contains(t, paths, route)
	}
}
