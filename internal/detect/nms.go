package detect

import (
	"image"
	"sort"
)

// NonMaxSuppression performs greedy hard NMS on detection regions.
// Regions are visited in descending confidence order; a region is dropped
// when its IoU with an already kept region exceeds iouThreshold.
func NonMaxSuppression(regions []Region, iouThreshold float64) []Region {
	if len(regions) <= 1 {
		return regions
	}

	indices := sortRegionsByConfidence(regions)
	suppressed := make([]bool, len(regions))
	kept := make([]Region, 0, len(regions))

	for _, a := range indices {
		if suppressed[a] {
			continue
		}
		kept = append(kept, regions[a])

		for _, b := range indices {
			if suppressed[b] || a == b {
				continue
			}
			if IoU(regions[a].Box, regions[b].Box) > iouThreshold {
				suppressed[b] = true
			}
		}
	}

	return kept
}

// sortRegionsByConfidence returns region indices ordered by confidence descending.
// Ties keep the original order so suppression is deterministic.
func sortRegionsByConfidence(regions []Region) []int {
	indices := make([]int, len(regions))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return regions[indices[i]].Confidence > regions[indices[j]].Confidence
	})
	return indices
}

// IoU computes Intersection over Union for two rectangles.
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0.0
	}

	interArea := float64(inter.Dx() * inter.Dy())
	areaA := float64(a.Dx() * a.Dy())
	areaB := float64(b.Dx() * b.Dy())
	unionArea := areaA + areaB - interArea

	if unionArea <= 0 {
		return 0.0
	}
	return interArea / unionArea
}
