package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"starpost/internal/clients"
	"starpost/pkg/logger"
)

type mockSocialAPI struct {
	createFn  func(ctx context.Context, accountID, token, imageURL, caption string) (string, error)
	statusFn  func(ctx context.Context, containerID, token string) (string, error)
	publishFn func(ctx context.Context, accountID, token, containerID string) (string, error)

	statusCalls  int
	publishCalls int
}

func (m *mockSocialAPI) CreateContainer(ctx context.Context, accountID, token, imageURL, caption string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, accountID, token, imageURL, caption)
	}
	return "container-1", nil
}

func (m *mockSocialAPI) ContainerStatus(ctx context.Context, containerID, token string) (string, error) {
	m.statusCalls++
	if m.statusFn != nil {
		return m.statusFn(ctx, containerID, token)
	}
	return clients.ContainerFinished, nil
}

func (m *mockSocialAPI) PublishContainer(ctx context.Context, accountID, token, containerID string) (string, error) {
	m.publishCalls++
	if m.publishFn != nil {
		return m.publishFn(ctx, accountID, token, containerID)
	}
	return "post-1", nil
}

func newTestPublisher(api *mockSocialAPI) *Publisher {
	p := NewPublisher(api, logger.NewNop())
	p.PollDelay = 0
	return p
}

func TestPublishHappyPath(t *testing.T) {
	api := &mockSocialAPI{}
	p := newTestPublisher(api)

	postID, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.NoError(t, err)
	require.Equal(t, "post-1", postID)
	require.Equal(t, 1, api.publishCalls)
}

func TestPublishWaitsForProcessing(t *testing.T) {
	api := &mockSocialAPI{}
	api.statusFn = func(context.Context, string, string) (string, error) {
		if api.statusCalls < 3 {
			return clients.ContainerInProgress, nil
		}
		return clients.ContainerFinished, nil
	}
	p := newTestPublisher(api)

	_, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.NoError(t, err)
	require.Equal(t, 3, api.statusCalls)
}

func TestPublishRetriesOnceWhenMediaNotReady(t *testing.T) {
	api := &mockSocialAPI{}
	api.publishFn = func(context.Context, string, string, string) (string, error) {
		if api.publishCalls == 1 {
			return "", &clients.GraphError{Code: 9007, Subcode: 2207027, Message: "Media not ready"}
		}
		return "post-late", nil
	}
	p := newTestPublisher(api)

	postID, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.NoError(t, err)
	require.Equal(t, "post-late", postID)
	require.Equal(t, 2, api.publishCalls)
}

func TestPublishOtherGraphErrorIsTerminal(t *testing.T) {
	api := &mockSocialAPI{}
	api.publishFn = func(context.Context, string, string, string) (string, error) {
		return "", &clients.GraphError{Code: 190, Message: "Invalid OAuth access token"}
	}
	p := newTestPublisher(api)

	_, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.Error(t, err)
	require.Equal(t, 1, api.publishCalls)
}

func TestPublishContainerProcessingError(t *testing.T) {
	api := &mockSocialAPI{}
	api.statusFn = func(context.Context, string, string) (string, error) {
		return clients.ContainerError, nil
	}
	p := newTestPublisher(api)

	_, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed processing")
	require.Zero(t, api.publishCalls)
}

func TestPublishPollExhaustion(t *testing.T) {
	api := &mockSocialAPI{}
	api.statusFn = func(context.Context, string, string) (string, error) {
		return clients.ContainerInProgress, nil
	}
	p := newTestPublisher(api)
	p.MaxPolls = 4

	_, err := p.Publish(context.Background(), "acct", "token", "https://img", "caption")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not ready after waiting")
	require.Equal(t, 4, api.statusCalls)
	require.Zero(t, api.publishCalls)
}
