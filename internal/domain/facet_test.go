package domain

import "testing"

func floatp(v float64) *float64 { return &v }

func TestDefaultFacetState(t *testing.T) {
	s := DefaultFacetState()

	if s.SortField != SortFieldCreatedAt {
		t.Errorf("SortField = %v, want %v", s.SortField, SortFieldCreatedAt)
	}
	if !s.SortDescending {
		t.Error("SortDescending = false, want true")
	}
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
	if s.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", s.PageSize, DefaultPageSize)
	}
	if s.Featured != nil || s.Condition != nil || s.MinPrice != nil || s.MaxPrice != nil {
		t.Error("optional filters must be absent by default")
	}
}

func TestFacetState_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		state FacetState
		check func(t *testing.T, s FacetState)
	}{
		{
			name:  "page below one is corrected",
			state: FacetState{Page: 0, PageSize: 10, SortField: SortFieldPrice},
			check: func(t *testing.T, s FacetState) {
				if s.Page != 1 {
					t.Errorf("Page = %d, want 1", s.Page)
				}
			},
		},
		{
			name:  "page size above max is capped",
			state: FacetState{Page: 1, PageSize: 5000, SortField: SortFieldPrice},
			check: func(t *testing.T, s FacetState) {
				if s.PageSize != MaxPageSize {
					t.Errorf("PageSize = %d, want %d", s.PageSize, MaxPageSize)
				}
			},
		},
		{
			name:  "unknown sort field falls back to createdAt",
			state: FacetState{Page: 1, PageSize: 10, SortField: "owner"},
			check: func(t *testing.T, s FacetState) {
				if s.SortField != SortFieldCreatedAt {
					t.Errorf("SortField = %v, want %v", s.SortField, SortFieldCreatedAt)
				}
			},
		},
		{
			name: "main category without category is dropped",
			state: FacetState{
				Page: 1, PageSize: 10, SortField: SortFieldCreatedAt,
				MainCategoryID:    "mc-9",
				SubCategoryValues: map[string]string{"sc-1": "red"},
			},
			check: func(t *testing.T, s FacetState) {
				if s.MainCategoryID != "" {
					t.Errorf("MainCategoryID = %q, want empty", s.MainCategoryID)
				}
				if s.SubCategoryValues != nil {
					t.Errorf("SubCategoryValues = %v, want nil", s.SubCategoryValues)
				}
			},
		},
		{
			name: "attribute ids and values are trimmed",
			state: FacetState{
				Page: 1, PageSize: 10, SortField: SortFieldCreatedAt,
				CategoryID:     "c-1",
				MainCategoryID: "mc-1",
				SubCategoryValues: map[string]string{
					" sc-fuel ": " diesel ",
					"sc-blank":  "   ",
				},
			},
			check: func(t *testing.T, s FacetState) {
				want := map[string]string{"sc-fuel": "diesel"}
				if len(s.SubCategoryValues) != 1 || s.SubCategoryValues["sc-fuel"] != "diesel" {
					t.Errorf("SubCategoryValues = %v, want %v", s.SubCategoryValues, want)
				}
			},
		},
		{
			name: "sub-category values without main category are dropped",
			state: FacetState{
				Page: 1, PageSize: 10, SortField: SortFieldCreatedAt,
				CategoryID:        "c-1",
				SubCategoryValues: map[string]string{"sc-1": "red"},
			},
			check: func(t *testing.T, s FacetState) {
				if s.SubCategoryValues != nil {
					t.Errorf("SubCategoryValues = %v, want nil", s.SubCategoryValues)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			s.Normalize()
			tt.check(t, s)
		})
	}
}

func TestFacetState_Validate_PriceRange(t *testing.T) {
	tests := []struct {
		name    string
		min     *float64
		max     *float64
		wantErr bool
	}{
		{name: "no prices", wantErr: false},
		{name: "min only", min: floatp(50), wantErr: false},
		{name: "valid range", min: floatp(50), max: floatp(100), wantErr: false},
		{name: "equal bounds", min: floatp(75), max: floatp(75), wantErr: false},
		{name: "inverted range", min: floatp(100), max: floatp(50), wantErr: true},
		{name: "negative min", min: floatp(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultFacetState()
			s.MinPrice = tt.min
			s.MaxPrice = tt.max

			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Validate() error is not a ValidationError: %v", err)
			}
		})
	}
}

func TestFacetState_Clone_IsDeep(t *testing.T) {
	s := DefaultFacetState()
	s.CategoryID = "c-1"
	s.MainCategoryID = "mc-1"
	s.SubCategoryValues = map[string]string{"sc-1": "red"}
	s.MinPrice = floatp(10)

	c := s.Clone()
	c.SubCategoryValues["sc-1"] = "blue"
	*c.MinPrice = 99

	if s.SubCategoryValues["sc-1"] != "red" {
		t.Error("clone shares the sub-category value map")
	}
	if *s.MinPrice != 10 {
		t.Error("clone shares the MinPrice pointer")
	}
}
