// Package classifier implements zero-shot classification of HPV vaccine comments.
// A comment is sent with a fixed rubric to a chat completion service and the
// trimmed reply is returned as the label, without validation.
package classifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JaimeStill/stance/pkg/completion"
)

// Temperature requests greedy decoding. It is not configurable.
const Temperature = 0.0

// Completer is the upstream chat completion capability the classifier depends on.
// *completion.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, token string, req completion.Request) (*completion.Response, error)
}

// Credentials authorize calls to the completion service.
// They are passed per call and never retained by the classifier.
type Credentials struct {
	Token string
}

// Validate returns ErrMissingCredential if no token is present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingCredential
	}
	return nil
}

// Classifier classifies single comments against the fixed rubric.
type Classifier struct {
	client    Completer
	model     string
	maxTokens int
	logger    *slog.Logger
}

// New creates a Classifier that calls client with the model and output cap from cfg.
func New(client Completer, cfg *completion.Config, logger *slog.Logger) *Classifier {
	return &Classifier{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.With("system", "classifier"),
	}
}

// Model returns the model identifier sent with every request.
func (c *Classifier) Model() string {
	return c.model
}

// Classify returns the label the upstream model assigns to comment.
//
// The returned label is always usable. On failure it is LabelError and the
// error is either ErrMissingCredential (no call was made) or a *CallError
// wrapping the completion failure. Non-conforming replies are returned
// verbatim with a nil error.
func (c *Classifier) Classify(ctx context.Context, comment string, creds Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return LabelError, err
	}

	resp, err := c.client.Complete(ctx, creds.Token, c.request(comment))
	if err != nil {
		return c.fail(ctx, err)
	}

	content, err := resp.Content()
	if err != nil {
		return c.fail(ctx, err)
	}

	return strings.TrimSpace(content), nil
}

func (c *Classifier) request(comment string) completion.Request {
	return completion.Request{
		Model: c.model,
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: Instructions},
			{Role: completion.RoleUser, Content: comment},
		},
		Temperature: Temperature,
		MaxTokens:   c.maxTokens,
	}
}

func (c *Classifier) fail(ctx context.Context, err error) (string, error) {
	c.logger.WarnContext(ctx, "classification call failed", "model", c.model, "error", err)
	return LabelError, &CallError{Err: err}
}
