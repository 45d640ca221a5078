package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starpost/internal/clients"
	"starpost/pkg/logger"
)

// socialAPI is the slice of SocialClient the publisher needs.
type socialAPI interface {
	CreateContainer(ctx context.Context, accountID, token, imageURL, caption string) (string, error)
	ContainerStatus(ctx context.Context, containerID, token string) (string, error)
	PublishContainer(ctx context.Context, accountID, token, containerID string) (string, error)
}

// Publisher drives the platform's two-phase publish protocol: create a
// media container, poll it until processing finishes, then publish it.
// The platform can report a container created before it is publishable,
// so a publish failing with the "media not ready" code gets one extra
// wait-and-recheck cycle before it is terminal.
type Publisher struct {
	api    socialAPI
	logger *logger.Logger

	MaxPolls   int
	ExtraPolls int
	PollDelay  time.Duration
}

func NewPublisher(api socialAPI, l *logger.Logger) *Publisher {
	return &Publisher{
		api:        api,
		logger:     l,
		MaxPolls:   10,
		ExtraPolls: 20,
		PollDelay:  2 * time.Second,
	}
}

// Publish returns the remote post id on success.
func (p *Publisher) Publish(ctx context.Context, accountID, token, imageURL, caption string) (string, error) {
	containerID, err := p.api.CreateContainer(ctx, accountID, token, imageURL, caption)
	if err != nil {
		return "", err
	}

	if err := p.awaitReady(ctx, containerID, token, p.MaxPolls); err != nil {
		return "", err
	}

	postID, err := p.api.PublishContainer(ctx, accountID, token, containerID)
	if err == nil {
		return postID, nil
	}

	var graphErr *clients.GraphError
	if !errors.As(err, &graphErr) || !graphErr.MediaNotReady() {
		return "", err
	}

	// One self-healing retry: the container reported FINISHED but the
	// media pipeline lagged behind. Wait longer and publish once more.
	p.logger.Warnf("publisher: container %s not ready at publish, retrying once", containerID)
	if err := p.awaitReady(ctx, containerID, token, p.ExtraPolls); err != nil {
		return "", err
	}
	return p.api.PublishContainer(ctx, accountID, token, containerID)
}

func (p *Publisher) awaitReady(ctx context.Context, containerID, token string, maxPolls int) error {
	for i := 0; i < maxPolls; i++ {
		if i > 0 {
			time.Sleep(p.PollDelay)
		}
		status, err := p.api.ContainerStatus(ctx, containerID, token)
		if err != nil {
			return err
		}
		switch status {
		case clients.ContainerFinished:
			return nil
		case clients.ContainerError:
			return fmt.Errorf("container %s failed processing", containerID)
		}
	}
	return fmt.Errorf("container %s not ready after waiting", containerID)
}
