package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/utils"
)

const (
	SortPopular = "popular"
	SortRating  = "rating"
	SortSales   = "sales"
	SortRecent  = "recent"

	featuredStoreCount = 4
)

type MarketplaceUseCase struct {
	catalogRepo      repository.CatalogRepository
	favoriteRepo     repository.FavoriteRepository
	conversationRepo repository.ConversationRepository
}

func NewMarketplaceUseCase(
	catalogRepo repository.CatalogRepository,
	favoriteRepo repository.FavoriteRepository,
	conversationRepo repository.ConversationRepository,
) *MarketplaceUseCase {
	return &MarketplaceUseCase{
		catalogRepo:      catalogRepo,
		favoriteRepo:     favoriteRepo,
		conversationRepo: conversationRepo,
	}
}

type StoreFilter struct {
	Category string
	Query    string
	Sort     string
}

type HomeResult struct {
	Featured   []entity.StoreSummary `json:"featured"`
	Categories []string              `json:"categories"`
}

type StoreDetail struct {
	*entity.Store
	IsFavorite      bool `json:"isFavorite"`
	HasConversation bool `json:"hasConversation"`
}

type ProductDetail struct {
	Product *entity.Product     `json:"product"`
	Store   entity.StoreSummary `json:"store"`
}

func (uc *MarketplaceUseCase) Categories() []string {
	return uc.catalogRepo.Categories()
}

// Home returns the featured stores and categories. device may be empty for
// anonymous visitors.
func (uc *MarketplaceUseCase) Home(ctx context.Context, device string) (*HomeResult, error) {
	stores := uc.catalogRepo.Stores()
	if len(stores) > featuredStoreCount {
		stores = stores[:featuredStoreCount]
	}

	featured, err := uc.summarize(ctx, device, stores)
	if err != nil {
		return nil, err
	}
	return &HomeResult{
		Featured:   featured,
		Categories: uc.catalogRepo.Categories(),
	}, nil
}

func (uc *MarketplaceUseCase) ListStores(ctx context.Context, device string, filter StoreFilter, page utils.PaginationParams) ([]entity.StoreSummary, int, error) {
	sortBy, err := normalizeSort(filter.Sort)
	if err != nil {
		return nil, 0, err
	}

	var matched []*entity.Store
	for _, s := range uc.catalogRepo.Stores() {
		if matchesCategory(s, filter.Category) && matchesQuery(s, filter.Query) {
			matched = append(matched, s)
		}
	}
	sortStores(matched, sortBy)

	summaries, err := uc.summarize(ctx, device, utils.Paginate(matched, page))
	if err != nil {
		return nil, 0, err
	}
	return summaries, len(matched), nil
}

func (uc *MarketplaceUseCase) GetStore(ctx context.Context, device string, id int) (*StoreDetail, error) {
	store, err := uc.catalogRepo.GetStore(id)
	if err != nil {
		return nil, err
	}

	detail := &StoreDetail{Store: store}
	if device == "" {
		return detail, nil
	}

	if detail.IsFavorite, err = uc.favoriteRepo.Contains(ctx, device, id); err != nil {
		return nil, err
	}
	if _, err := uc.conversationRepo.Get(ctx, device, id); err == nil {
		detail.HasConversation = true
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}
	return detail, nil
}

func (uc *MarketplaceUseCase) GetProduct(id int) (*ProductDetail, error) {
	product, store, err := uc.catalogRepo.GetProduct(id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Store: store.Summary()}, nil
}

func (uc *MarketplaceUseCase) summarize(ctx context.Context, device string, stores []*entity.Store) ([]entity.StoreSummary, error) {
	favorites := map[int]bool{}
	if device != "" {
		ids, err := uc.favoriteRepo.List(ctx, device)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			favorites[id] = true
		}
	}

	summaries := make([]entity.StoreSummary, 0, len(stores))
	for _, s := range stores {
		summary := s.Summary()
		summary.IsFavorite = favorites[s.ID]
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func normalizeSort(sortBy string) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(sortBy)); s {
	case "":
		return SortPopular, nil
	case SortPopular, SortRating, SortSales, SortRecent:
		return s, nil
	default:
		return "", errors.BadRequest("Invalid sort option: "+sortBy, nil)
	}
}

// matchesCategory treats the category as a case-insensitive fragment of the
// store category, so "Crafts" selects "Handmade Crafts".
func matchesCategory(s *entity.Store, category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Category), category)
}

func matchesQuery(s *entity.Store, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{s.Name, s.Category, s.Seller} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, p := range s.Products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return true
		}
	}
	return false
}

func sortStores(stores []*entity.Store, sortBy string) {
	var less func(a, b *entity.Store) bool
	switch sortBy {
	case SortRating:
		less = func(a, b *entity.Store) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.Reviews > b.Reviews
		}
	case SortSales:
		less = func(a, b *entity.Store) bool {
			return parseSales(a.Sales) > parseSales(b.Sales)
		}
	case SortRecent:
		less = func(a, b *entity.Store) bool {
			return a.ID > b.ID
		}
	default:
		less = func(a, b *entity.Store) bool {
			return a.Reviews > b.Reviews
		}
	}
	sort.SliceStable(stores, func(i, j int) bool {
		return less(stores[i], stores[j])
	})
}

// parseSales reads display figures such as "500+", "1.2K+" or "3M".
// Unreadable values count as zero.
func parseSales(sales string) float64 {
	s := strings.ToUpper(strings.TrimSpace(sales))
	s = strings.TrimSuffix(s, "+")
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n * multiplier
}
