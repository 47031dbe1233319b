// Package scryfall looks up commander cards for art and color identity.
// Lookups are purely additive to presentation: no state transition waits on
// them, and callers log and ignore failures.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
)

// DefaultBaseURL is the public Scryfall API root.
const DefaultBaseURL = "https://api.scryfall.com"

// Card is the subset of a Scryfall card the tracker uses.
type Card struct {
	Name          string    `json:"name"`
	ColorIdentity []string  `json:"color_identity"`
	ImageURIs     ImageURIs `json:"image_uris"`
	CardFaces     []Face    `json:"card_faces"`
}

// ImageURIs holds the art variants Scryfall serves per card.
type ImageURIs struct {
	ArtCrop string `json:"art_crop"`
}

// Face is one side of a double-faced card. Single-faced cards have none.
type Face struct {
	Name      string    `json:"name"`
	ImageURIs ImageURIs `json:"image_uris"`
}

// ArtCropURL returns the card's art crop, falling back to the front face
// for double-faced cards whose top-level image set is absent.
func (c Card) ArtCropURL() string {
	if c.ImageURIs.ArtCrop != "" {
		return c.ImageURIs.ArtCrop
	}
	for _, face := range c.CardFaces {
		if face.ImageURIs.ArtCrop != "" {
			return face.ImageURIs.ArtCrop
		}
	}
	return ""
}

// Client calls the Scryfall API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client against the given base URL. An empty base URL uses
// the public API; a nil http client gets a modest timeout.
func New(baseURL string, client *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// NamedCard resolves a card by fuzzy name match.
func (c *Client) NamedCard(ctx context.Context, name string) (Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Card{}, fmt.Errorf("card name is required")
	}

	endpoint := c.baseURL + "/cards/named?fuzzy=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Card{}, fmt.Errorf("build named card request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Card{}, fmt.Errorf("named card request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Card{}, fmt.Errorf("named card lookup returned %s", resp.Status)
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return Card{}, fmt.Errorf("decode named card response: %w", err)
	}
	return card, nil
}

// Suggestions returns autocomplete candidates for a partial card name.
func (c *Client) Suggestions(ctx context.Context, partial string) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil, nil
	}

	endpoint := c.baseURL + "/cards/autocomplete?q=" + url.QueryEscape(partial)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build autocomplete request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("autocomplete returned %s", resp.Status)
	}

	var payload struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode autocomplete response: %w", err)
	}
	return payload.Data, nil
}

// ArtRefs resolves the art crops for a commander entry. A partner or
// background pair joined by the fixed separator yields one ref per card;
// cards without art are simply omitted.
func (c *Client) ArtRefs(ctx context.Context, commander string) ([]string, error) {
	var refs []string
	for _, name := range strings.Split(commander, domain.PartnerSeparator) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		card, err := c.NamedCard(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", name, err)
		}
		if ref := card.ArtCropURL(); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// MergedColorIdentity resolves the combined color identity for a commander
// entry, accounting for partner pairs.
func (c *Client) MergedColorIdentity(ctx context.Context, commander string) ([]string, error) {
	names := strings.Split(commander, domain.PartnerSeparator)
	var first, second []string
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		card, err := c.NamedCard(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", name, err)
		}
		if i == 0 {
			first = card.ColorIdentity
		} else {
			second = append(second, card.ColorIdentity...)
		}
	}
	return domain.MergeColorIdentities(first, second), nil
}
