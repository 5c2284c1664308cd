package entity

type StoreReview struct {
	Author string `json:"author" yaml:"author"`
	Rating int    `json:"rating" yaml:"rating"`
	Text   string `json:"text" yaml:"text"`
	Date   string `json:"date" yaml:"date"`
}

type StorePolicies struct {
	Shipping     string `json:"shipping" yaml:"shipping"`
	Returns      string `json:"returns" yaml:"returns"`
	CustomOrders string `json:"customOrders" yaml:"customOrders"`
}

// Store is a seller's public storefront from the static catalog.
type Store struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Seller   string  `json:"seller" yaml:"seller"`
	Category string  `json:"category" yaml:"category"`
	Image    string  `json:"image" yaml:"image"`
	Banner   string  `json:"banner,omitempty" yaml:"banner"`
	Avatar   string  `json:"avatar,omitempty" yaml:"avatar"`
	Location string  `json:"location,omitempty" yaml:"location"`
	Rating   float64 `json:"rating" yaml:"rating"`
	Reviews  int     `json:"reviews" yaml:"reviews"`
	Sales    string  `json:"sales" yaml:"sales"`
	Verified bool    `json:"verified" yaml:"verified"`
	Online   bool    `json:"online" yaml:"online"`
	Since    int     `json:"since,omitempty" yaml:"since"`

	About         []string      `json:"about,omitempty" yaml:"about"`
	ReviewEntries []StoreReview `json:"reviewEntries,omitempty" yaml:"reviewEntries"`
	Policies      StorePolicies `json:"policies" yaml:"policies"`
	Products      []Product     `json:"products,omitempty" yaml:"products"`
}

// StoreSummary is the card shown on marketplace and home listings.
type StoreSummary struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Image      string  `json:"image"`
	Rating     float64 `json:"rating"`
	Reviews    int     `json:"reviews"`
	Sales      string  `json:"sales"`
	Verified   bool    `json:"verified"`
	IsFavorite bool    `json:"isFavorite"`
}

func (s *Store) Summary() StoreSummary {
	return StoreSummary{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Image:    s.Image,
		Rating:   s.Rating,
		Reviews:  s.Reviews,
		Sales:    s.Sales,
		Verified: s.Verified,
	}
}
