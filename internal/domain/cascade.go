package domain

// ResolveSignal tells the caller which dependent facet schema must be
// re-resolved from the directory before filter controls can be rendered.
type ResolveSignal int

const (
	ResolveNone ResolveSignal = iota
	ResolveMainCategories
	ResolveSubCategorySchema
)

// OnCategoryChanged returns a new state with the category replaced and every
// dependent facet cleared. Clearing is unconditional on parent change, not
// conditional on whether the old child still belongs to the new parent, so a
// stale child selection can never survive.
func OnCategoryChanged(s FacetState, categoryID string) (FacetState, ResolveSignal) {
	next := s.Clone()
	next.CategoryID = categoryID
	next.MainCategoryID = ""
	next.SubCategoryValues = nil
	next.Page = 1

	if categoryID == "" {
		return next, ResolveNone
	}
	return next, ResolveMainCategories
}

// OnMainCategoryChanged returns a new state with the main category replaced
// and its sub-category attribute values cleared. The parent category is left
// untouched.
func OnMainCategoryChanged(s FacetState, mainCategoryID string) (FacetState, ResolveSignal) {
	next := s.Clone()
	next.MainCategoryID = mainCategoryID
	next.SubCategoryValues = nil
	next.Page = 1
	next.Normalize()

	if next.MainCategoryID == "" {
		return next, ResolveNone
	}
	return next, ResolveSubCategorySchema
}

// OnSubCategoryValueChanged returns a new state with one attribute value set
// or, when value is empty, removed. A value without a selected main category
// is dropped by normalization.
func OnSubCategoryValueChanged(s FacetState, subCategoryID, value string) FacetState {
	next := s.Clone()
	if next.SubCategoryValues == nil {
		next.SubCategoryValues = map[string]string{}
	}
	if value == "" {
		delete(next.SubCategoryValues, subCategoryID)
	} else {
		next.SubCategoryValues[subCategoryID] = value
	}
	next.Page = 1
	next.Normalize()
	return next
}
