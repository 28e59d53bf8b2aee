package cluster

import (
	"math/rand"
	"runtime"
	"testing"
)

var usBounds = [4]float64{-125.0, 25.0, -65.0, 49.0}

func benchmarkBuild(b *testing.B, numPoints int) {
	rng := rand.New(rand.NewSource(42))
	fc := GenerateTestFeatureCollection(numPoints, usBounds, rng)

	var memBefore, memAfter runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := NewIndex(fc, Options{
			MinZoom:   0,
			MaxZoom:   16,
			MinPoints: 3,
			Radius:    40,
			Extent:    512,
			NodeSize:  64,
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	runtime.ReadMemStats(&memAfter)
	allocMB := float64(memAfter.TotalAlloc-memBefore.TotalAlloc) / 1024 / 1024
	b.ReportMetric(allocMB, "MB/op")
}

func BenchmarkBuildSmall(b *testing.B)  { benchmarkBuild(b, 1000) }
func BenchmarkBuildMedium(b *testing.B) { benchmarkBuild(b, 10000) }
func BenchmarkBuildLarge(b *testing.B)  { benchmarkBuild(b, 100000) }

func benchmarkGetTile(b *testing.B, numPoints int, zoom uint8) {
	rng := rand.New(rand.NewSource(42))
	fc := GenerateTestFeatureCollection(numPoints, usBounds, rng)
	idx, err := NewIndex(fc, Options{
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 3,
		Radius:    40,
		Extent:    512,
		NodeSize:  64,
	})
	if err != nil {
		b.Fatal(err)
	}

	z2 := uint32(1) << uint(zoom)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.GetTile(zoom, z2/2, z2/2)
	}
}

func BenchmarkGetTileLowZoom(b *testing.B)  { benchmarkGetTile(b, 10000, 2) }
func BenchmarkGetTileMidZoom(b *testing.B)  { benchmarkGetTile(b, 10000, 8) }
func BenchmarkGetTileHighZoom(b *testing.B) { benchmarkGetTile(b, 10000, 14) }
