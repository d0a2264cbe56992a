package services

import (
	"context"
	"fmt"
	"strings"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
	"catalog/internal/utils"
)

// Products priced above this need a description.
const justifiedPriceThreshold = 1000

type ProductStore interface {
	ListSource[models.Product]
	FindAll(ctx context.Context, q query.ListingQuery) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	OwnerID(ctx context.Context, id int64) (int64, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, ownerID int64, in models.CreateProductInput) (int64, error)
	Update(ctx context.Context, id int64, in models.UpdateProductInput) error
	Patch(ctx context.Context, id int64, in models.PatchProductInput) error
	Delete(ctx context.Context, id int64) error
}

type CategoryLookup interface {
	ExistenceChecker
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

type ProductService struct {
	Products   ProductStore
	Categories CategoryLookup
	Users      ExistenceChecker
	RequestID  string
}

var productFactory = query.NewFactory(query.ProductSchema)

func (s ProductService) lister() Lister[models.Product, models.ProductResponse] {
	return Lister[models.Product, models.ProductResponse]{
		Source:     s.Products,
		Owners:     s.Users,
		Categories: s.Categories,
		Map:        models.ProductToResponse,
	}
}

// ListAll returns every product, sorted and filtered but not paged. page and size are
// still validated so bad input is rejected, then ignored by the store.
func (s ProductService) ListAll(ctx context.Context, p query.ListingParams) ([]models.ProductResponse, error) {
	q, err := productFactory.Build(p)
	if err != nil {
		return nil, err
	}
	return s.listAll(ctx, q)
}

// ListAllByOwner is the unpaged listing of one user's products. A missing user is
// NotFoundError.
func (s ProductService) ListAllByOwner(ctx context.Context, ownerID int64, p query.ListingParams) ([]models.ProductResponse, error) {
	if err := requirePositiveID("userId", ownerID); err != nil {
		return nil, err
	}
	q, err := productFactory.Build(p)
	if err != nil {
		return nil, err
	}
	return s.listAll(ctx, q.WithOwner(ownerID))
}

func (s ProductService) listAll(ctx context.Context, q query.ListingQuery) ([]models.ProductResponse, error) {
	if err := s.lister().checkReferences(ctx, q); err != nil {
		return nil, err
	}
	utils.LogEvent(s.RequestID, "products", "list_all", describeQuery(q))
	rows, err := s.Products.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return query.MapItems(rows, models.ProductToResponse), nil
}

// Page serves /paginated and /search: a counted page with optional filters.
func (s ProductService) Page(ctx context.Context, p query.ListingParams) (query.PageResult[models.ProductResponse], error) {
	q, err := productFactory.Build(p)
	if err != nil {
		return query.PageResult[models.ProductResponse]{}, err
	}
	utils.LogEvent(s.RequestID, "products", "page", describeQuery(q))
	return s.lister().Page(ctx, q)
}

func (s ProductService) Slice(ctx context.Context, p query.ListingParams) (query.SliceResult[models.ProductResponse], error) {
	q, err := productFactory.Build(p)
	if err != nil {
		return query.SliceResult[models.ProductResponse]{}, err
	}
	utils.LogEvent(s.RequestID, "products", "slice", describeQuery(q))
	return s.lister().Slice(ctx, q)
}

// PageByOwner lists the products of one user. A missing user is NotFoundError, never an
// empty page.
func (s ProductService) PageByOwner(ctx context.Context, ownerID int64, p query.ListingParams) (query.PageResult[models.ProductResponse], error) {
	if err := requirePositiveID("userId", ownerID); err != nil {
		return query.PageResult[models.ProductResponse]{}, err
	}
	q, err := productFactory.Build(p)
	if err != nil {
		return query.PageResult[models.ProductResponse]{}, err
	}
	q = q.WithOwner(ownerID)
	utils.LogEvent(s.RequestID, "products", "page_by_owner", describeQuery(q))
	return s.lister().Page(ctx, q)
}

// SliceByCategory lists products of one category. The path id overrides any categoryId
// query parameter.
func (s ProductService) SliceByCategory(ctx context.Context, categoryID int64, p query.ListingParams) (query.SliceResult[models.ProductResponse], error) {
	if err := requirePositiveID("categoryId", categoryID); err != nil {
		return query.SliceResult[models.ProductResponse]{}, err
	}
	p.Filter.CategoryID = &categoryID
	q, err := productFactory.Build(p)
	if err != nil {
		return query.SliceResult[models.ProductResponse]{}, err
	}
	return s.lister().Slice(ctx, q)
}

// PageByCategory is the counted variant used by /categories/:id/products.
func (s ProductService) PageByCategory(ctx context.Context, categoryID int64, p query.ListingParams) (query.PageResult[models.ProductResponse], error) {
	if err := requirePositiveID("categoryId", categoryID); err != nil {
		return query.PageResult[models.ProductResponse]{}, err
	}
	p.Filter.CategoryID = &categoryID
	q, err := productFactory.Build(p)
	if err != nil {
		return query.PageResult[models.ProductResponse]{}, err
	}
	return s.lister().Page(ctx, q)
}

func (s ProductService) Get(ctx context.Context, id int64) (models.ProductResponse, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return models.ProductResponse{}, err
	}
	return models.ProductToResponse(p), nil
}

// Create stores a product owned by the caller.
func (s ProductService) Create(ctx context.Context, rc domain.RequestContext, in models.CreateProductInput) (models.ProductResponse, error) {
	if err := requirePositiveID("userId", rc.UserID); err != nil {
		return models.ProductResponse{}, err
	}
	in.Name = utils.NormalizeSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateProductFields(in.Name, in.Description, in.Price, in.Stock); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.checkCategories(ctx, in.CategoryIDs); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.checkNameFree(ctx, in.Name, 0); err != nil {
		return models.ProductResponse{}, err
	}

	id, err := s.Products.Create(ctx, rc.UserID, in)
	if err != nil {
		return models.ProductResponse{}, err
	}
	utils.LogEvent(s.RequestID, "products", "create", fmt.Sprintf("product_id=%d owner_id=%d", id, rc.UserID))
	return s.Get(ctx, id)
}

// Update replaces every field. Only the owner or an admin/moderator may update.
func (s ProductService) Update(ctx context.Context, rc domain.RequestContext, id int64, in models.UpdateProductInput) (models.ProductResponse, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateProductFields(in.Name, in.Description, in.Price, in.Stock); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.authorize(ctx, rc, id); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.checkCategories(ctx, in.CategoryIDs); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.checkNameFree(ctx, in.Name, id); err != nil {
		return models.ProductResponse{}, err
	}
	if err := s.Products.Update(ctx, id, in); err != nil {
		return models.ProductResponse{}, err
	}
	utils.LogEvent(s.RequestID, "products", "update", fmt.Sprintf("product_id=%d", id))
	return s.Get(ctx, id)
}

// Patch applies the present fields on top of the stored product.
func (s ProductService) Patch(ctx context.Context, rc domain.RequestContext, id int64, in models.PatchProductInput) (models.ProductResponse, error) {
	if err := s.authorize(ctx, rc, id); err != nil {
		return models.ProductResponse{}, err
	}
	current, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return models.ProductResponse{}, err
	}
	merged := current
	if in.Name != nil {
		merged.Name = utils.NormalizeSpace(*in.Name)
	}
	if in.Description != nil {
		merged.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		merged.Price = *in.Price
	}
	if in.Stock != nil {
		merged.Stock = *in.Stock
	}
	if err := validateProductFields(merged.Name, merged.Description, merged.Price, merged.Stock); err != nil {
		return models.ProductResponse{}, err
	}
	if in.Name != nil && !strings.EqualFold(merged.Name, current.Name) {
		if err := s.checkNameFree(ctx, merged.Name, id); err != nil {
			return models.ProductResponse{}, err
		}
	}
	if err := s.Products.Patch(ctx, id, in); err != nil {
		return models.ProductResponse{}, err
	}
	utils.LogEvent(s.RequestID, "products", "patch", fmt.Sprintf("product_id=%d", id))
	return s.Get(ctx, id)
}

func (s ProductService) Delete(ctx context.Context, rc domain.RequestContext, id int64) error {
	if err := s.authorize(ctx, rc, id); err != nil {
		return err
	}
	if err := s.Products.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "products", "delete", fmt.Sprintf("product_id=%d", id))
	return nil
}

// ValidateName returns ConflictError when another product (not excludeID) uses name.
func (s ProductService) ValidateName(ctx context.Context, name string, excludeID int64) error {
	name = utils.NormalizeSpace(name)
	if err := requireLength("name", name, 3, 200); err != nil {
		return err
	}
	return s.checkNameFree(ctx, name, excludeID)
}

func (s ProductService) authorize(ctx context.Context, rc domain.RequestContext, id int64) error {
	if err := requirePositiveID("id", id); err != nil {
		return err
	}
	owner, err := s.Products.OwnerID(ctx, id)
	if err != nil {
		return err
	}
	if owner != rc.UserID && !rc.CanManageAny() {
		return domain.ForbiddenError{Msg: "you can only modify your own products"}
	}
	return nil
}

func (s ProductService) checkNameFree(ctx context.Context, name string, excludeID int64) error {
	taken, err := s.Products.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ConflictError{Resource: "product", Msg: fmt.Sprintf("name %q already exists", name)}
	}
	return nil
}

func (s ProductService) checkCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	uniq := map[int64]bool{}
	for _, id := range ids {
		if err := requirePositiveID("categoryIds", id); err != nil {
			return err
		}
		uniq[id] = true
	}
	n, err := s.Categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(uniq) {
		return domain.NotFoundError{Resource: "category"}
	}
	return nil
}

func validateProductFields(name, description string, price float64, stock int) error {
	if err := requireLength("name", name, 3, 200); err != nil {
		return err
	}
	if err := requireMaxLength("description", description, 500); err != nil {
		return err
	}
	if price < 0 {
		return domain.ValidationError{Field: "price", Msg: "price must be >= 0"}
	}
	if stock < 0 {
		return domain.ValidationError{Field: "stock", Msg: "stock must be >= 0"}
	}
	if price > justifiedPriceThreshold && description == "" {
		return domain.ValidationError{Field: "description", Msg: "description is required when price exceeds 1000"}
	}
	return nil
}

func describeQuery(q query.ListingQuery) string {
	b := q.Bounds()
	msg := fmt.Sprintf("page=%d size=%d sort=%s", b.Page, b.Size, q.Sort().String())
	if owner, ok := q.OwnerID(); ok {
		msg += fmt.Sprintf(" owner_id=%d", owner)
	}
	return msg
}
