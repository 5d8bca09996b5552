package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		page         int
		wantPage     int
		wantNumPages int
		wantOffset   int
	}{
		{name: "empty set still has one page", total: 0, page: 1, wantPage: 1, wantNumPages: 1, wantOffset: 0},
		{name: "first page", total: 25, page: 1, wantPage: 1, wantNumPages: 3, wantOffset: 0},
		{name: "middle page", total: 25, page: 2, wantPage: 2, wantNumPages: 3, wantOffset: 10},
		{name: "exact page boundary", total: 20, page: 2, wantPage: 2, wantNumPages: 2, wantOffset: 10},
		{name: "page past the end clamps to last", total: 25, page: 99, wantPage: 3, wantNumPages: 3, wantOffset: 20},
		{name: "zero page clamps to first", total: 25, page: 0, wantPage: 1, wantNumPages: 3, wantOffset: 0},
		{name: "negative page clamps to first", total: 25, page: -5, wantPage: 1, wantNumPages: 3, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, numPages, offset := clampPage(tt.total, tt.page)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantNumPages, numPages)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
