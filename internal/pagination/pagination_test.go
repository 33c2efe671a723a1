package pagination

import "testing"

func TestPageRequest_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"zero value gets defaults", PageRequest{}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{"explicit values kept", PageRequest{Page: 3, PageSize: 5}, PageRequest{Page: 3, PageSize: 5}},
		{"oversized page clamped", PageRequest{Page: 1, PageSize: 5000}, PageRequest{Page: 1, PageSize: MaxPageSize}},
		{"negative page reset", PageRequest{Page: -2, PageSize: 10}, PageRequest{Page: 1, PageSize: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("counts pages and next", func(t *testing.T) {
		resp := NewPageResponse([]string{"a", "b"}, PageRequest{Page: 2, PageSize: 2}, 5)

		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
		if !resp.HasNext {
			t.Error("expected a next page")
		}
	})

	t.Run("last page has no next", func(t *testing.T) {
		resp := NewPageResponse([]string{"e"}, PageRequest{Page: 3, PageSize: 2}, 5)

		if resp.HasNext {
			t.Error("expected no next page")
		}
	})

	t.Run("nil data becomes empty", func(t *testing.T) {
		resp := NewPageResponse[int](nil, PageRequest{}, 0)

		if resp.Data == nil || len(resp.Data) != 0 {
			t.Errorf("expected empty slice, got %v", resp.Data)
		}
		if resp.TotalPages != 0 || resp.PageSize != DefaultPageSize {
			t.Errorf("unexpected envelope %+v", resp)
		}
	})
}
