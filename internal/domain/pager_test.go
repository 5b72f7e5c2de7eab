package domain

import (
	"reflect"
	"testing"
)

func TestVisiblePageWindow(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		siblings int
		want     []int
	}{
		{
			name:    "middle of a long range",
			current: 10, total: 20, siblings: 1,
			want: []int{1, Ellipsis, 9, 10, 11, Ellipsis, 20},
		},
		{
			name:    "small total enumerates every page",
			current: 1, total: 5, siblings: 1,
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name:    "gap of one page is enumerated, not collapsed",
			current: 4, total: 20, siblings: 1,
			want: []int{1, 2, 3, 4, 5, Ellipsis, 20},
		},
		{
			name:    "near the end",
			current: 18, total: 20, siblings: 1,
			want: []int{1, Ellipsis, 17, 18, 19, 20},
		},
		{
			name:    "first page of a long range",
			current: 1, total: 20, siblings: 1,
			want: []int{1, 2, Ellipsis, 20},
		},
		{
			name:    "last page of a long range",
			current: 20, total: 20, siblings: 1,
			want: []int{1, Ellipsis, 19, 20},
		},
		{
			name:    "wider sibling window",
			current: 10, total: 30, siblings: 2,
			want: []int{1, Ellipsis, 8, 9, 10, 11, 12, Ellipsis, 30},
		},
		{
			name:    "single page yields no pager",
			current: 1, total: 1, siblings: 1,
			want: nil,
		},
		{
			name:    "zero pages yields no pager",
			current: 1, total: 0, siblings: 1,
			want: nil,
		},
		{
			name:    "current above total is clamped first",
			current: 999, total: 20, siblings: 1,
			want: []int{1, Ellipsis, 19, 20},
		},
		{
			name:    "current below one is clamped first",
			current: -5, total: 20, siblings: 1,
			want: []int{1, 2, Ellipsis, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisiblePageWindow(tt.current, tt.total, tt.siblings)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisiblePageWindow(%d, %d, %d) = %v, want %v",
					tt.current, tt.total, tt.siblings, got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		requested  int
		totalPages int
		want       int
	}{
		{name: "below range", requested: 0, totalPages: 10, want: 1},
		{name: "above range", requested: 999, totalPages: 10, want: 10},
		{name: "within range", requested: 5, totalPages: 10, want: 5},
		{name: "no pages yet", requested: 7, totalPages: 0, want: 7},
		{name: "negative with no pages", requested: -2, totalPages: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPage(tt.requested, tt.totalPages); got != tt.want {
				t.Errorf("ClampPage(%d, %d) = %d, want %d",
					tt.requested, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestNewPager(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalCount int64
		wantPages  int
		wantPage   int
	}{
		{name: "exact division", page: 1, pageSize: 10, totalCount: 100, wantPages: 10, wantPage: 1},
		{name: "remainder adds a page", page: 1, pageSize: 10, totalCount: 101, wantPages: 11, wantPage: 1},
		{name: "empty result", page: 1, pageSize: 10, totalCount: 0, wantPages: 0, wantPage: 1},
		{name: "page clamped to totals", page: 50, pageSize: 10, totalCount: 95, wantPages: 10, wantPage: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(tt.page, tt.pageSize, tt.totalCount)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
		})
	}
}
