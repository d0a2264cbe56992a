package query

// ListingParams are the raw listing inputs collected from the request.
type ListingParams struct {
	Page   int
	Size   int
	Sort   []string
	Filter FilterInput
}

// ListingQuery is the validated paging, sorting and filtering specification of one
// request. It is a value: copies are independent and nothing mutates it after Build.
type ListingQuery struct {
	bounds   PageBounds
	sort     SortSpec
	filter   FilterSpec
	ownerID  int64
	hasOwner bool
}

func (q ListingQuery) Bounds() PageBounds { return q.bounds }

func (q ListingQuery) Sort() SortSpec { return q.sort }

func (q ListingQuery) Filter() FilterSpec { return q.filter }

// OwnerID is set when results are scoped to a single owner.
func (q ListingQuery) OwnerID() (int64, bool) { return q.ownerID, q.hasOwner }

// WithOwner returns a copy scoped to ownerID.
func (q ListingQuery) WithOwner(ownerID int64) ListingQuery {
	q.ownerID, q.hasOwner = ownerID, true
	return q
}

// Factory builds ListingQuery values for one entity schema. It holds only a pointer to
// the immutable schema and is safe for concurrent use.
type Factory struct {
	schema *Schema
}

func NewFactory(s *Schema) Factory {
	return Factory{schema: s}
}

func (f Factory) Schema() *Schema { return f.schema }

// Build validates bounds, then sort, then filter. The first failure is returned and no
// query is produced.
func (f Factory) Build(p ListingParams) (ListingQuery, error) {
	bounds, err := ValidateBounds(p.Page, p.Size)
	if err != nil {
		return ListingQuery{}, err
	}
	sortSpec, err := f.schema.ResolveSort(ParseSortTokens(p.Sort))
	if err != nil {
		return ListingQuery{}, err
	}
	filter, err := BuildFilter(f.schema, p.Filter)
	if err != nil {
		return ListingQuery{}, err
	}
	return ListingQuery{bounds: bounds, sort: sortSpec, filter: filter}, nil
}
