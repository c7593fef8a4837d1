package sdk_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/blob"
	"github.com/johnlatif16/Story-stories/internal/config"
	"github.com/johnlatif16/Story-stories/internal/repository"
	"github.com/johnlatif16/Story-stories/internal/server"
	"github.com/johnlatif16/Story-stories/internal/services/stories"
	"github.com/johnlatif16/Story-stories/internal/services/upload"
	"github.com/johnlatif16/Story-stories/pkg/sdk"
)

func startTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	hash, err := auth.HashPassword("sdk-password")
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:         "sdk-test-secret",
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		MaxUploadBytes:    1 << 20,
	}

	authority, err := auth.NewAuthority(cfg.JWTSecret)
	require.NoError(t, err)

	assets, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	repo := repository.NewFileStoryRepository(filepath.Join(t.TempDir(), "stories.json"))
	service := stories.NewService(repo, stories.NewCache()).WithAssetStore(assets)

	srv := httptest.NewServer(server.NewRouter(server.RouterOptions{
		Service:   service,
		Pipeline:  upload.NewPipeline(assets, cfg.MaxUploadBytes),
		Authority: authority,
		Cfg:       cfg,
		AssetDir:  assets.Dir(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Login(t *testing.T) {
	srv := startTestAPI(t)
	ctx := context.Background()

	t.Run("bad credentials", func(t *testing.T) {
		client := sdk.NewClient(srv.URL)
		err := client.Login(ctx, "admin", "wrong")

		var apiErr *sdk.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.StatusCode)
		assert.Empty(t, client.Token())
	})

	t.Run("success", func(t *testing.T) {
		client := sdk.NewClient(srv.URL)
		require.NoError(t, client.Login(ctx, "admin", "sdk-password"))
		require.NotEmpty(t, client.Token())

		identity, err := client.Whoami(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", identity.Username)
	})
}

func TestClient_StoryLifecycle(t *testing.T) {
	srv := startTestAPI(t)
	ctx := context.Background()

	client := sdk.NewClient(srv.URL)
	require.NoError(t, client.Login(ctx, "admin", "sdk-password"))

	created, err := client.CreateStory(ctx, sdk.CreateStoryInput{
		Title:  "From the SDK",
		Body:   "body text",
		Source: "https://example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	stories, err := client.ListStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "From the SDK", stories[0].Title)

	deleted, err := client.DeleteStory(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.DeleteStory(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestClient_CreateStoryRequiresAuth(t *testing.T) {
	srv := startTestAPI(t)
	ctx := context.Background()

	client := sdk.NewClient(srv.URL)
	_, err := client.CreateStory(ctx, sdk.CreateStoryInput{Title: "Nope"})

	var apiErr *sdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestClient_CreateStoryValidatesTitle(t *testing.T) {
	srv := startTestAPI(t)

	client := sdk.NewClient(srv.URL, sdk.WithToken("irrelevant"))
	_, err := client.CreateStory(context.Background(), sdk.CreateStoryInput{})
	require.Error(t, err)

	var apiErr *sdk.APIError
	assert.False(t, errors.As(err, &apiErr), "title check should fail before any request")
}

func TestClient_UploadImage(t *testing.T) {
	srv := startTestAPI(t)
	ctx := context.Background()

	client := sdk.NewClient(srv.URL)
	require.NoError(t, client.Login(ctx, "admin", "sdk-password"))

	url, err := client.UploadImage(ctx, "cat.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"), "got %s", url)

	created, err := client.CreateStory(ctx, sdk.CreateStoryInput{
		Title:    "With image",
		ImageURL: url,
	})
	require.NoError(t, err)
	assert.Equal(t, url, created.ImageURL)
}
