// Command profiler exercises Index construction and tile queries under
// pprof, the way the teacher's profiler exercised its flat clustering
// pass, adapted to the hierarchical builder and GetTile query surface.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/tcabral/clustopher/cluster"
)

var (
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to file")
	heapprofile = flag.String("heapprofile", "", "write heap profile to file")
	numPoints   = flag.Int("points", 100000, "number of points to generate")
	zoomLevel   = flag.Int("zoom", 8, "zoom level to profile a tile query at")
	testall     = flag.Bool("testall", false, "test all configurations")
)

// usBounds is the continental-US bounding box the teacher used to
// generate synthetic test points.
var usBounds = [4]float64{-125.0, 25.0, -65.0, 49.0}

func buildIndex(n int) *cluster.Index {
	rng := rand.New(rand.NewSource(42))
	fc := cluster.GenerateTestFeatureCollection(n, usBounds, rng)
	idx, err := cluster.NewIndex(fc, cluster.Options{
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 3,
		Radius:    40,
		Extent:    512,
		NodeSize:  64,
	})
	if err != nil {
		panic(err)
	}
	return idx
}

func runSingleProfile(numPoints, zoomLevel int) {
	fmt.Printf("Profiling with %d points at zoom level %d\n", numPoints, zoomLevel)

	var memBefore, memAfter runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	start := time.Now()
	idx := buildIndex(numPoints)
	buildDuration := time.Since(start)

	tileStart := time.Now()
	z2 := uint32(1) << uint(zoomLevel)
	tile := idx.GetTile(uint8(zoomLevel), z2/2, z2/2)
	tileDuration := time.Since(tileStart)

	runtime.ReadMemStats(&memAfter)
	allocMB := float64(memAfter.TotalAlloc-memBefore.TotalAlloc) / 1024 / 1024

	fmt.Printf("Build completed in %v\n", buildDuration)
	fmt.Printf("GetTile completed in %v, %d features\n", tileDuration, len(tile.Features))
	fmt.Printf("Memory allocated: %.2f MB\n", allocMB)
	fmt.Printf("Memory usage: %.2f MB\n", float64(memAfter.Alloc)/1024/1024)
}

func runProfileBattery() {
	pointCounts := []int{1000, 10000, 50000, 100000}
	zoomLevels := []int{2, 5, 8, 12, 15}

	fmt.Println("Running comprehensive profile battery...")
	fmt.Println("=======================================")
	fmt.Printf("%-10s | %-10s | %-15s | %-15s | %-10s\n",
		"Points", "Zoom", "Build", "Tile", "Memory (MB)")
	fmt.Println("------------------------------------------------------------------------")

	for _, points := range pointCounts {
		for _, zoom := range zoomLevels {
			var memBefore, memAfter runtime.MemStats
			runtime.ReadMemStats(&memBefore)

			buildStart := time.Now()
			idx := buildIndex(points)
			buildDuration := time.Since(buildStart)

			z2 := uint32(1) << uint(zoom)
			tileStart := time.Now()
			idx.GetTile(uint8(zoom), z2/2, z2/2)
			tileDuration := time.Since(tileStart)

			runtime.ReadMemStats(&memAfter)
			memMB := float64(memAfter.TotalAlloc-memBefore.TotalAlloc) / 1024 / 1024

			fmt.Printf("%-10d | %-10d | %-15s | %-15s | %-10.2f\n",
				points, zoom, buildDuration, tileDuration, memMB)
		}
		fmt.Println("------------------------------------------------------------------------")
	}
}

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			return
		}
		defer f.Close()

		fmt.Println("Starting CPU profiling...")
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return
		}
		defer pprof.StopCPUProfile()
	}

	if *testall {
		runProfileBattery()
	} else {
		runSingleProfile(*numPoints, *zoomLevel)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create memory profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write memory profile: %v\n", err)
		}
	}

	if *heapprofile != "" {
		f, err := os.Create(*heapprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create heap profile: %v\n", err)
			return
		}
		defer f.Close()

		memProfile := pprof.Lookup("heap")
		if memProfile == nil {
			fmt.Fprintf(os.Stderr, "Could not find heap profile\n")
			return
		}
		if err := memProfile.WriteTo(f, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write heap profile: %v\n", err)
		}
	}
}
