package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorial/internal/config"
)

func TestClientSendsTokenAndDecodesExercise(t *testing.T) {
	var gotAuth, gotAccept string
	var gotBody struct {
		OperationName string            `json:"operationName"`
		Variables     map[string]string `json:"variables"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Exercises":{"docs":[{
			"id":"ex-1",
			"slug":"welcome",
			"title":"Welcome",
			"files":{"App.svelte":"<h1>Hi</h1>"},
			"part":{"title":"Introduction"},
			"next":{"slug":"your-first-component","title":"Your first component"}
		}]}}}`))
	}))
	defer server.Close()

	client := NewClient(config.Config{GraphQLEndpoint: server.URL, GraphQLAuthToken: "secret"})
	response, err := ExerciseBySlug(context.Background(), client, "welcome")
	require.NoError(t, err)

	assert.Equal(t, "JWT secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "ExerciseBySlug", gotBody.OperationName)
	assert.Equal(t, "welcome", gotBody.Variables["slug"])

	doc := response.First()
	require.NotNil(t, doc)
	assert.Equal(t, "ex-1", doc.Id)
	require.NotNil(t, doc.Next)
	assert.Equal(t, "your-first-component", *doc.Next.Slug)

	keys, values, err := doc.Files.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"App.svelte"}, keys)
	assert.Equal(t, "<h1>Hi</h1>", values["App.svelte"])
}

func TestClientWithoutTokenSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Exercises":{"docs":[]}}}`))
	}))
	defer server.Close()

	client := NewClient(config.Config{GraphQLEndpoint: server.URL})
	response, err := ExerciseMetaBySlug(context.Background(), client, "missing")
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.Nil(t, response.First())
}

func TestClientUsesConfiguredTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(config.Config{GraphQLEndpoint: server.URL, GraphQLTimeout: 50 * time.Millisecond})
	_, err := ExerciseMetaBySlug(context.Background(), client, "welcome")
	assert.Error(t, err)
}

func TestJSONObjectStringsRejectsNonStrings(t *testing.T) {
	object := JSONObject{"a.js": json.RawMessage(`42`)}
	_, _, err := object.Strings()
	assert.ErrorContains(t, err, `"a.js"`)
}
