package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
	"starpost/internal/repository"
	starpost_errors "starpost/pkg/errors"
	"starpost/pkg/logger"
)

const captionHashtags = "#CustomerLove #FiveStars #HappyCustomers #ShopSmall"

// imagePipeline is the slice of Pipeline the poster needs.
type imagePipeline interface {
	Generate(ctx context.Context, data ReviewData) (string, bool)
}

type reachabilityChecker interface {
	WaitReachable(ctx context.Context, url string) bool
}

type containerPublisher interface {
	Publish(ctx context.Context, accountID, token, imageURL, caption string) (string, error)
}

// Poster turns one review into one social post. Every failure path
// upserts a failed ledger row before returning the error, so the ledger
// always reflects the latest attempt.
type Poster struct {
	attempts  repository.PostAttemptRepository
	pipeline  imagePipeline
	verifier  reachabilityChecker
	publisher containerPublisher
	logger    *logger.Logger
}

func NewPoster(attempts repository.PostAttemptRepository, pipeline imagePipeline, verifier reachabilityChecker, publisher containerPublisher, l *logger.Logger) *Poster {
	return &Poster{
		attempts:  attempts,
		pipeline:  pipeline,
		verifier:  verifier,
		publisher: publisher,
		logger:    l,
	}
}

func (p *Poster) PostOne(ctx context.Context, rev review.Review, cred credential.Social) error {
	data := ReviewData{
		Text:     rev.Body,
		Rating:   rev.Rating,
		Reviewer: rev.ReviewerName,
		Product:  rev.ProductTitle,
		Brand:    BrandName(rev.Shop),
	}

	imageURL, ok := p.pipeline.Generate(ctx, data)
	if !ok {
		p.recordFailure(ctx, rev, nil, "Image generation failed")
		return fmt.Errorf("post review %s: %w", rev.ID, starpost_errors.ErrImageGeneration)
	}

	if !p.verifier.WaitReachable(ctx, imageURL) {
		p.recordFailure(ctx, rev, &imageURL, "image not accessible")
		return fmt.Errorf("post review %s: %w", rev.ID, starpost_errors.ErrImageNotAccessible)
	}

	caption := BuildCaption(rev)
	postID, err := p.publisher.Publish(ctx, cred.AccountID, cred.AccessToken, imageURL, caption)
	if err != nil {
		p.recordFailure(ctx, rev, &imageURL, err.Error())
		return fmt.Errorf("post review %s: %w", rev.ID, err)
	}

	attempt := &review.PostAttempt{
		Shop:         rev.Shop,
		ReviewID:     rev.ID,
		Rating:       rev.Rating,
		ReviewText:   review.TruncateText(rev.Body),
		ReviewerName: rev.ReviewerName,
		ProductTitle: rev.ProductTitle,
		ImageURL:     &imageURL,
		PostedID:     &postID,
		Status:       review.StatusSuccess,
		AttemptedAt:  time.Now(),
	}
	if err := p.attempts.Upsert(ctx, attempt); err != nil {
		return fmt.Errorf("record success for review %s: %w", rev.ID, err)
	}
	p.logger.Infof("posted review %s for %s as %s", rev.ID, rev.Shop, postID)
	return nil
}

func (p *Poster) recordFailure(ctx context.Context, rev review.Review, imageURL *string, detail string) {
	attempt := &review.PostAttempt{
		Shop:         rev.Shop,
		ReviewID:     rev.ID,
		Rating:       rev.Rating,
		ReviewText:   review.TruncateText(rev.Body),
		ReviewerName: rev.ReviewerName,
		ProductTitle: rev.ProductTitle,
		ImageURL:     imageURL,
		Status:       review.StatusFailed,
		ErrorDetail:  &detail,
		AttemptedAt:  time.Now(),
	}
	if err := p.attempts.Upsert(ctx, attempt); err != nil {
		p.logger.Errorf("recording failed attempt for review %s: %s", rev.ID, err)
	}
}

// BrandName derives a display name from a shop domain:
// "acme-candle-co.myshopify.com" -> "Acme Candle Co".
func BrandName(shop string) string {
	name := strings.TrimSuffix(shop, ".myshopify.com")
	segments := strings.Split(name, "-")
	for i, seg := range segments {
		segments[i] = titleCase(seg)
	}
	return strings.Join(segments, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// BuildCaption lays out the post caption: stars, quoted review text,
// reviewer signature, hashtag block.
func BuildCaption(rev review.Review) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("⭐", rev.Rating))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%q", rev.Body))
	b.WriteString("\n\n")
	b.WriteString("- " + rev.ReviewerName)
	b.WriteString("\n\n")
	b.WriteString(captionHashtags)
	return b.String()
}
