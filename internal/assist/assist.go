// Package assist fills in product descriptions with a text-generation
// model. It never fails: errors degrade to a fallback sentence.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrNoGenerator = errors.New("assist: no text generator configured")

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Describer is what the rest of the application depends on.
type Describer interface {
	Describe(ctx context.Context, name, category string) string
}

// Prompt is the instruction sent for a product.
func Prompt(name, category string) string {
	return fmt.Sprintf("Write a compelling 2-sentence marketing description for a product named \"%s\" in the \"%s\" category. Be concise and professional.", name, category)
}

// Fallback is used whenever generation fails.
func Fallback(name string) string {
	return "Experience quality and innovation with our latest " + name + "."
}

type Client struct {
	gen     Generator
	cache   *Cache
	timeout time.Duration
	logger  *slog.Logger
	group   singleflight.Group
}

type Options struct {
	Cache   *Cache
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient wires a describer. gen may be nil, in which case every call
// returns the fallback.
func NewClient(gen Generator, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{gen: gen, cache: opts.Cache, timeout: opts.Timeout, logger: opts.Logger}
}

func (c *Client) Describe(ctx context.Context, name, category string) string {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	key := cacheKey(category, name)

	if cached, ok := c.cache.Get(ctx, key); ok {
		return cached
	}

	// The shared call outlives any single caller; each caller only stops
	// waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		text, err := c.generate(shared, name, category)
		if err != nil {
			return "", err
		}
		if err := c.cache.Set(shared, key, text); err != nil {
			c.logger.Warn("caching description failed", "key", key, "error", err)
		}
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			c.logger.Warn("description generation failed", "product", name, "category", category, "error", res.Err)
			return Fallback(name)
		}
		return res.Val.(string)
	case <-ctx.Done():
		c.logger.Debug("description request abandoned", "product", name, "error", ctx.Err())
		return Fallback(name)
	}
}

func (c *Client) generate(ctx context.Context, name, category string) (string, error) {
	if c.gen == nil {
		return "", ErrNoGenerator
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	text, err := c.gen.Generate(ctx, Prompt(name, category))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("assist: empty response")
	}
	return text, nil
}
