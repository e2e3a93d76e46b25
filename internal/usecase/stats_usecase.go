package usecase

import (
	"context"
	"sort"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"

	"github.com/montanaflynn/stats"
)

// 上位商品（いいね順）の件数
const topProductsLimit = 5

// 管理画面の集計。状態は持たず、呼ばれるたびに各コレクションから計算する。
type StatsUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	orderRepo    repo.OrderRepository
	userRepo     repo.UserRepository
}

func NewStatsUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	orderRepo repo.OrderRepository,
	userRepo repo.UserRepository,
) *StatsUsecase {
	return &StatsUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
	}
}

func (u *StatsUsecase) Compute(ctx context.Context) (model.Stats, error) {
	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return model.Stats{}, storageError("load products", err)
	}
	categories, err := u.categoryRepo.LoadAll(ctx)
	if err != nil {
		return model.Stats{}, storageError("load categories", err)
	}
	orders, err := u.orderRepo.LoadAll(ctx)
	if err != nil {
		return model.Stats{}, storageError("load orders", err)
	}
	users, err := u.userRepo.LoadAll(ctx)
	if err != nil {
		return model.Stats{}, storageError("load users", err)
	}

	return Summarize(products, categories, orders, users), nil
}

// 集計の本体（I/Oなし）
func Summarize(products []model.Product, categories []string, orders []model.Order, users []model.User) model.Stats {
	s := model.Stats{
		TotalProducts: int64(len(products)),
		TotalUsers:    int64(len(users)),
		TotalOrders:   int64(len(orders)),
	}

	values := make(stats.Float64Data, 0, len(orders))
	for _, o := range orders {
		s.TotalRevenue += o.TotalAmount
		s.TotalDonations += o.DonationAmount
		values = append(values, float64(o.TotalAmount))
	}
	for _, p := range products {
		if p.Status == model.ProductStatusPending {
			s.PendingProducts++
		}
	}

	s.AverageOrderValue = roundedOrZero(values.Mean)
	s.MedianOrderValue = roundedOrZero(values.Median)
	if s.TotalRevenue > 0 {
		s.DonationShare = float64(s.TotalDonations) / float64(s.TotalRevenue)
	}

	s.Categories = categoryBuckets(products, categories)
	s.OrderStatuses = orderStatusBuckets(orders)
	s.TopProducts = topProducts(products, topProductsLimit)
	return s
}

// 空データは stats がエラーを返すので 0 にする
func roundedOrZero(f func() (float64, error)) int64 {
	v, err := f()
	if err != nil {
		return 0
	}
	r, err := stats.Round(v, 0)
	if err != nil {
		return 0
	}
	return int64(r)
}

// カテゴリ一覧の順に数える。一覧から消えたカテゴリの商品は後ろに足す。
func categoryBuckets(products []model.Product, categories []string) []model.Bucket {
	counts := make(map[string]int64, len(categories))
	for _, p := range products {
		counts[p.Category]++
	}

	out := make([]model.Bucket, 0, len(categories))
	listed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		listed[c] = struct{}{}
		out = append(out, model.Bucket{Name: c, Count: counts[c]})
	}

	var extra []string
	for c := range counts {
		if _, ok := listed[c]; !ok {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, model.Bucket{Name: c, Count: counts[c]})
	}
	return out
}

func orderStatusBuckets(orders []model.Order) []model.Bucket {
	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]model.Bucket, 0, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		out = append(out, model.Bucket{Name: string(st), Count: counts[st]})
	}
	return out
}

func topProducts(products []model.Product, n int) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Likes > sorted[j].Likes
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
