package usecase

import (
	"context"
	"strings"
	"sync"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
	"kariakita/internal/validator"
)

// 商品カタログと承認フロー。
// 変更はすべて「読み込み→検証→変更→コレクション全体を保存→返す」。保存に失敗したら何も変えない。
type ProductUsecase struct {
	mu           sync.Mutex
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	audit        *auditRecorder
	idGen        IDGenerator
	clock        Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
	log Logger,
) *ProductUsecase {
	if log == nil {
		log = nopLogger{}
	}
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		audit:        &auditRecorder{repo: auditRepo, idGen: idGen, clock: clock, log: log},
		idGen:        idGen,
		clock:        clock,
	}
}

// 出品の入力。Status が入っていても無視して pending にする。
type SubmitProductInput struct {
	Title       string
	Description string
	Price       int64
	Image       string
	Category    string
	Condition   model.Condition
	Seller      model.Seller
	IsAvailable *bool
	Eco         bool
	Status      model.ProductStatus
}

// 部分更新（nil は変更なし）
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *int64
	Image       *string
	Category    *string
	Condition   *model.Condition
	Seller      *model.Seller
	IsAvailable *bool
	Eco         *bool
}

func (u *ProductUsecase) Submit(ctx context.Context, in SubmitProductInput) (model.Product, error) {
	if err := validator.ValidateProductDraft(validator.ProductDraft{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
	}); err != nil {
		return model.Product{}, validationError("%v", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.requireCategory(ctx, in.Category); err != nil {
		return model.Product{}, err
	}

	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return model.Product{}, storageError("load products", err)
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	p := model.Product{
		ID:          u.idGen.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		Condition:   in.Condition,
		Seller:      in.Seller,
		Likes:       0,
		IsAvailable: available,
		Eco:         in.Eco,
		CreatedAt:   u.clock.Now(),
		// 新規出品は必ず審査待ち
		Status: model.ProductStatusPending,
	}

	next := append(cloneProducts(products), p)
	if err := u.productRepo.SaveAll(ctx, next); err != nil {
		return model.Product{}, storageError("save products", err)
	}
	return p, nil
}

// 部分更新。ステータスは変えない（承認/却下を通すこと）。
func (u *ProductUsecase) Update(ctx context.Context, id string, patch ProductPatch) (model.Product, error) {
	if err := validatePatch(patch); err != nil {
		return model.Product{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if patch.Category != nil {
		if err := u.requireCategory(ctx, *patch.Category); err != nil {
			return model.Product{}, err
		}
	}

	return u.mutate(ctx, id, func(p *model.Product) error {
		applyPatch(p, patch)
		return nil
	})
}

// 出品者による編集＋再申請。審査待ちに戻し、前回の判定は消す。
// 他人の商品は「存在しない扱い」にする。
func (u *ProductUsecase) Resubmit(ctx context.Context, sellerEmail string, id string, patch ProductPatch) (model.Product, error) {
	if err := validatePatch(patch); err != nil {
		return model.Product{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if patch.Category != nil {
		if err := u.requireCategory(ctx, *patch.Category); err != nil {
			return model.Product{}, err
		}
	}

	return u.mutate(ctx, id, func(p *model.Product) error {
		if !strings.EqualFold(p.Seller.Email, sellerEmail) {
			return notFoundError("product not found")
		}
		// 出品者は変えられない
		patch.Seller = nil
		applyPatch(p, patch)
		p.Status = model.ProductStatusPending
		p.ResolvedAt = nil
		p.ResolvedBy = ""
		p.RejectionReason = ""
		return nil
	})
}

// 完全削除（元に戻せない）
func (u *ProductUsecase) Remove(ctx context.Context, actor string, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return storageError("load products", err)
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return notFoundError("product not found")
	}
	removed := products[idx]

	next := make([]model.Product, 0, len(products)-1)
	next = append(next, products[:idx]...)
	next = append(next, products[idx+1:]...)
	if err := u.productRepo.SaveAll(ctx, next); err != nil {
		return storageError("save products", err)
	}

	u.audit.record(ctx, actor, model.AuditActionRemoveProduct, model.AuditResourceProduct, id, removed, nil)
	return nil
}

func (u *ProductUsecase) Approve(ctx context.Context, id string, approver string) (model.Product, error) {
	if validator.Blank(approver) {
		return model.Product{}, validationError("approver required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	var before model.Product
	p, err := u.mutate(ctx, id, func(p *model.Product) error {
		before = *p
		if p.Status != model.ProductStatusPending {
			return newError(ErrInvalidState, "product is %s, not pending", p.Status)
		}
		now := u.clock.Now()
		p.Status = model.ProductStatusApproved
		p.ResolvedAt = &now
		p.ResolvedBy = approver
		p.RejectionReason = ""
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	u.audit.record(ctx, approver, model.AuditActionApproveProduct, model.AuditResourceProduct, id,
		statusJSON(string(before.Status)), statusJSON(string(p.Status)))
	return p, nil
}

func (u *ProductUsecase) Reject(ctx context.Context, id string, reason string, rejecter string) (model.Product, error) {
	if validator.Blank(reason) {
		return model.Product{}, validationError("rejection reason required")
	}
	if validator.Blank(rejecter) {
		return model.Product{}, validationError("rejecter required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	var before model.Product
	p, err := u.mutate(ctx, id, func(p *model.Product) error {
		before = *p
		if p.Status != model.ProductStatusPending {
			return newError(ErrInvalidState, "product is %s, not pending", p.Status)
		}
		now := u.clock.Now()
		p.Status = model.ProductStatusRejected
		p.ResolvedAt = &now
		p.ResolvedBy = rejecter
		p.RejectionReason = strings.TrimSpace(reason)
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	u.audit.record(ctx, rejecter, model.AuditActionRejectProduct, model.AuditResourceProduct, id,
		statusJSON(string(before.Status)),
		map[string]string{"status": string(p.Status), "reason": p.RejectionReason})
	return p, nil
}

// いいね数（0未満にはしない）
func (u *ProductUsecase) Like(ctx context.Context, id string) (model.Product, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.mutate(ctx, id, func(p *model.Product) error {
		p.Likes++
		return nil
	})
}

func (u *ProductUsecase) Unlike(ctx context.Context, id string) (model.Product, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.mutate(ctx, id, func(p *model.Product) error {
		if p.Likes > 0 {
			p.Likes--
		}
		return nil
	})
}

func (u *ProductUsecase) FindByID(ctx context.Context, id string) (model.Product, error) {
	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return model.Product{}, storageError("load products", err)
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return model.Product{}, notFoundError("product not found")
	}
	return products[idx], nil
}

// 購入者向けの取得。見えない商品は UnavailableError。
func (u *ProductUsecase) FindVisible(ctx context.Context, id string) (model.Product, error) {
	p, err := u.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if !p.Visible() {
		return model.Product{}, newError(ErrUnavailable, "product is not available")
	}
	return p, nil
}

func (u *ProductUsecase) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load products", err)
	}
	return products, nil
}

func (u *ProductUsecase) ListByStatus(ctx context.Context, status model.ProductStatus) ([]model.Product, error) {
	if !status.Valid() {
		return nil, validationError("invalid status %q", status)
	}
	return u.filter(ctx, func(p model.Product) bool { return p.Status == status })
}

// 承認済みかつ販売中
func (u *ProductUsecase) ListVisible(ctx context.Context) ([]model.Product, error) {
	return u.filter(ctx, model.Product.Visible)
}

// 出品者自身の商品（全ステータス）
func (u *ProductUsecase) ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error) {
	return u.filter(ctx, func(p model.Product) bool { return strings.EqualFold(p.Seller.Email, sellerEmail) })
}

func (u *ProductUsecase) filter(ctx context.Context, keep func(model.Product) bool) ([]model.Product, error) {
	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load products", err)
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// u.mu を持った状態で呼ぶ
func (u *ProductUsecase) mutate(ctx context.Context, id string, fn func(p *model.Product) error) (model.Product, error) {
	products, err := u.productRepo.LoadAll(ctx)
	if err != nil {
		return model.Product{}, storageError("load products", err)
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return model.Product{}, notFoundError("product not found")
	}

	next := cloneProducts(products)
	updated := next[idx]
	if err := fn(&updated); err != nil {
		return model.Product{}, err
	}
	next[idx] = updated

	if err := u.productRepo.SaveAll(ctx, next); err != nil {
		return model.Product{}, storageError("save products", err)
	}
	return updated, nil
}

func (u *ProductUsecase) requireCategory(ctx context.Context, category string) error {
	categories, err := u.categoryRepo.LoadAll(ctx)
	if err != nil {
		return storageError("load categories", err)
	}
	for _, c := range categories {
		if c == category {
			return nil
		}
	}
	return validationError("unknown category %q", category)
}

func validatePatch(p ProductPatch) error {
	if p.Title != nil && validator.Blank(*p.Title) {
		return validationError("title required")
	}
	if p.Description != nil && validator.Blank(*p.Description) {
		return validationError("description required")
	}
	if p.Category != nil && validator.Blank(*p.Category) {
		return validationError("category required")
	}
	if p.Price != nil {
		if err := validator.ValidatePrice(*p.Price); err != nil {
			return validationError("price %v", err)
		}
	}
	if p.Condition != nil && !p.Condition.Valid() {
		return validationError("invalid condition %q", *p.Condition)
	}
	return nil
}

func applyPatch(p *model.Product, patch ProductPatch) {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Condition != nil {
		p.Condition = *patch.Condition
	}
	if patch.Seller != nil {
		p.Seller = *patch.Seller
	}
	if patch.IsAvailable != nil {
		p.IsAvailable = *patch.IsAvailable
	}
	if patch.Eco != nil {
		p.Eco = *patch.Eco
	}
}

func indexOfProduct(products []model.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(in []model.Product) []model.Product {
	out := make([]model.Product, len(in), len(in)+1)
	copy(out, in)
	return out
}

func statusJSON(status string) map[string]string {
	return map[string]string{"status": status}
}
