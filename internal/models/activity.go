package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	PricingFree          = "free"
	PricingPaid          = "paid"
	PricingInstitutional = "institutional"
)

const DefaultLanguage = "english"

type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AuthorSummary is embedded into activity payloads for listings. Rating is
// the author's tutor rating, null for non-tutor authors.
type AuthorSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Region *string   `json:"region"`
	Avatar *string   `json:"avatar"`
	Rating *float64  `json:"rating"`
}

type Activity struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Language    string          `json:"language"`
	Description *string         `json:"description"`
	Elements    json.RawMessage `json:"elements"`
	AuthorID    uuid.UUID       `json:"authorId"`
	IsPublished bool            `json:"isPublished"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Marketplace fields. purchaseCount, rating and reviewCount are derived
	// from the purchase and review rows and are never set by callers.
	Price         float64   `json:"price"`
	PricingModel  string    `json:"pricingModel"`
	PurchaseCount int       `json:"purchaseCount"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Thumbnail     *string   `json:"thumbnail"`
	PreviewURL    *string   `json:"previewUrl"`
	AgeRange      *AgeRange `json:"ageRange"`
	TherapyGoals  []string  `json:"therapyGoals"`
	DiagnosisTags []string  `json:"diagnosisTags"`

	Author *AuthorSummary `json:"author,omitempty"`
}

type CreateActivityRequest struct {
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Language    string          `json:"language"`
	Description *string         `json:"description"`
	Elements    json.RawMessage `json:"elements"`
	AuthorID    *uuid.UUID      `json:"authorId"`
	IsPublished bool            `json:"isPublished"`
	Tags        []string        `json:"tags"`
}

// UpdateActivityRequest is a patch: nil fields are left untouched.
type UpdateActivityRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Elements    json.RawMessage `json:"elements"`
	Tags        *[]string       `json:"tags"`
	Language    *string         `json:"language"`
}

// AgeRangeInput allows either bound to be absent; the pair is only stored
// when both are present and non-zero.
type AgeRangeInput struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type PublishActivityRequest struct {
	Price         *float64       `json:"price"`
	PricingModel  *string        `json:"pricingModel"`
	AgeRange      *AgeRangeInput `json:"ageRange"`
	TherapyGoals  []string       `json:"therapyGoals"`
	DiagnosisTags []string       `json:"diagnosisTags"`
	Thumbnail     *string        `json:"thumbnail"`
	PreviewURL    *string        `json:"previewUrl"`
	Description   *string        `json:"description"`
}

// ActivityFilter narrows the authoring listing. All predicates are
// AND-combined; zero values mean "no filter".
type ActivityFilter struct {
	AuthorID    *uuid.UUID
	IsPublished *bool
	Language    string
	Type        string
}

// MarketplaceFilter narrows the published listing. Region and Price accept
// "all" as no filter; Price is one of all/free/paid where paid includes
// institutional pricing.
type MarketplaceFilter struct {
	Region   string
	Language string
	Type     string
	Price    string
	Search   string
}
