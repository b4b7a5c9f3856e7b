package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/wordscore/internal/adapters/repository"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
)

func benchStore(b *testing.B, n int) *repository.MemoryStore {
	b.Helper()
	ctx := context.Background()
	s := repository.NewMemoryStore()
	for i := 0; i < n; i++ {
		if _, err := s.Save(ctx, model.ScoreRecord{Letters: fmt.Sprintf("W%d", i), Points: i % 97}); err != nil {
			b.Fatal(err)
		}
	}
	return s
}

func BenchmarkMemoryStore_Save(b *testing.B) {
	ctx := context.Background()
	s := repository.NewMemoryStore()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Save(ctx, model.ScoreRecord{Letters: "QUIZ", Points: i % 97}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryStore_Page(b *testing.B) {
	cases := []struct {
		name string
		req  ranking.SortRequest
	}{
		{"default/top10", ranking.SortRequest{Size: 10}},
		{"default/deep", ranking.SortRequest{Page: 500, Size: 100}},
		{"createdAt/top10", ranking.SortRequest{
			Orders: []ranking.Order{{Field: ranking.FieldCreatedAt, Direction: ranking.Desc}},
			Size:   10,
		}},
	}

	s := benchStore(b, 100_000)
	ctx := context.Background()
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := s.Page(ctx, tc.req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMemoryStore_SaveParallel(b *testing.B) {
	ctx := context.Background()
	s := repository.NewMemoryStore()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := s.Save(ctx, model.ScoreRecord{Letters: "JAZZ", Points: i % 97}); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}
