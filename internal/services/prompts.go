package services

import (
	"context"
	"fmt"
	"strings"
)

// ReviewData is the input to image personalization.
type ReviewData struct {
	Text     string
	Rating   int
	Reviewer string
	Product  string
	Brand    string
}

// PromptStrategy turns review data into an image-generation prompt.
type PromptStrategy interface {
	BuildPrompt(ctx context.Context, data ReviewData) (string, error)
}

// StaticPrompt renders a fixed template. No extra network round trip,
// no extra failure point.
type StaticPrompt struct{}

func (StaticPrompt) BuildPrompt(_ context.Context, data ReviewData) (string, error) {
	var b strings.Builder
	b.WriteString("Create a square social media image showcasing a customer review.\n\n")
	b.WriteString("Design requirements:\n")
	b.WriteString("- Clean, modern layout with a soft gradient background\n")
	b.WriteString("- A large quotation mark motif framing the review text\n")
	b.WriteString(fmt.Sprintf("- %d gold stars displayed prominently\n", data.Rating))
	b.WriteString(fmt.Sprintf("- The brand name %q in an elegant footer\n\n", data.Brand))
	b.WriteString("Content to display:\n")
	b.WriteString(fmt.Sprintf("- Review text, verbatim: %q\n", data.Text))
	b.WriteString(fmt.Sprintf("- Reviewer name: %s\n", data.Reviewer))
	b.WriteString(fmt.Sprintf("- Product: %s\n\n", data.Product))
	b.WriteString("Visual style:\n")
	b.WriteString("- Warm, trustworthy color palette\n")
	b.WriteString("- Legible sans-serif typography, high contrast\n")
	b.WriteString("- No watermarks, no extra text beyond the content above\n")
	return b.String(), nil
}

// promptCompleter is the slice of PromptGenClient the dynamic strategy needs.
type promptCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DynamicPrompt asks a text model to write a bespoke prompt for the
// review. Produces more on-brand output than the static template at the
// cost of one more call that can fail.
type DynamicPrompt struct {
	completer promptCompleter
}

func NewDynamicPrompt(completer promptCompleter) *DynamicPrompt {
	return &DynamicPrompt{completer: completer}
}

const dynamicSystemPrompt = `You write prompts for a generative image model. Given a customer review,
produce a single prompt describing a branded square social media image for it.
Rules:
- Copy the review text into the prompt verbatim, in quotes. Never paraphrase it.
- Infer the product category from the product title and pick a matching visual
  theme (colors, props, mood).
- Include the star rating as that many gold stars and the reviewer name as a
  signature line.
- Output only the prompt text, nothing else.`

func (d *DynamicPrompt) BuildPrompt(ctx context.Context, data ReviewData) (string, error) {
	user := fmt.Sprintf(
		"Brand: %s\nProduct: %s\nRating: %d\nReviewer: %s\nReview text: %q",
		data.Brand, data.Product, data.Rating, data.Reviewer, data.Text,
	)
	prompt, err := d.completer.Complete(ctx, dynamicSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("dynamic prompt generation: %w", err)
	}
	return prompt, nil
}
