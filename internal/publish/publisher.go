// Package publish writes rendered landing page previews to blob storage.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"landingcore/internal/blob"
	"landingcore/internal/core"
)

// ContentType is attached to every published preview.
const ContentType = "application/json"

// ErrEmptySelection is returned when a preview without units is published.
var ErrEmptySelection = errors.New("publish: preview has no selected units")

// Publisher stores preview documents under previews/<project-id>/.
type Publisher struct {
	store blob.Store
	now   func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock overrides the time source used for object keys.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Publisher writing to store.
func New(store blob.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the object key for a document of projectID published at ts.
func Key(projectID int, ts time.Time) string {
	return "previews/" + strconv.Itoa(projectID) + "/" + strconv.FormatInt(ts.UnixNano(), 10) + ".json"
}

// Publish writes doc and returns the stored object's info. Documents with
// critical violations are refused with core.RuleViolationError.
func (p *Publisher) Publish(ctx context.Context, doc core.PreviewDocument) (blob.Info, error) {
	if doc.HasCritical() {
		return blob.Info{}, core.RuleViolationError{Result: core.Result{Violations: doc.Violations}}
	}
	if len(doc.Units) == 0 {
		return blob.Info{}, ErrEmptySelection
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode preview: %w", err)
	}
	key := Key(doc.Project.ID, p.now())
	info, err := p.store.Put(ctx, key, bytes.NewReader(body), blob.PutOptions{
		ContentType: ContentType,
		Metadata: map[string]string{
			"project-id": strconv.Itoa(doc.Project.ID),
			"units":      strconv.Itoa(len(doc.Units)),
			"focus":      string(doc.Personalization.FocusType),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store preview %s: %w", key, err)
	}
	if info.URL == "" {
		if url, err := p.store.PresignURL(ctx, key, blob.SignedURLOptions{}); err == nil {
			info.URL = url
		}
	}
	return info, nil
}

// List returns previously published previews for projectID, oldest first.
func (p *Publisher) List(ctx context.Context, projectID int) ([]blob.Info, error) {
	return p.store.List(ctx, "previews/"+strconv.Itoa(projectID)+"/")
}
