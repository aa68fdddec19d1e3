package forecast

import (
	"math/rand"
	"sort"
)

const numFeatures = 2

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

func (n *node) predict(x [numFeatures]float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// forest is an ensemble of regression trees fit on bootstrap resamples.
// Every split considers all features; trees grow until leaves are pure or
// hold a single sample.
type forest struct {
	trees []*node
}

func fitForest(xs [][numFeatures]float64, ys []float64, nTrees int, seed int64) *forest {
	rng := rand.New(rand.NewSource(seed))
	f := &forest{trees: make([]*node, 0, nTrees)}
	n := len(ys)
	for t := 0; t < nTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, grow(xs, ys, idx))
	}
	return f
}

func (f *forest) predict(x [numFeatures]float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	first := f.trees[0].predict(x)
	sum, same := 0.0, true
	for _, t := range f.trees {
		p := t.predict(x)
		if p != first {
			same = false
		}
		sum += p
	}
	// Identical leaves return the value as is so that a single training
	// sample predicts exactly itself.
	if same {
		return first
	}
	return sum / float64(len(f.trees))
}

func mean(ys []float64, idx []int) float64 {
	s := 0.0
	for _, i := range idx {
		s += ys[i]
	}
	return s / float64(len(idx))
}

func grow(xs [][numFeatures]float64, ys []float64, idx []int) *node {
	if len(idx) < 2 || pure(ys, idx) {
		return &node{leaf: true, value: mean(ys, idx)}
	}
	feature, threshold, ok := bestSplit(xs, ys, idx)
	if !ok {
		return &node{leaf: true, value: mean(ys, idx)}
	}
	var left, right []int
	for _, i := range idx {
		if xs[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      grow(xs, ys, left),
		right:     grow(xs, ys, right),
	}
}

func pure(ys []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if ys[i] != ys[idx[0]] {
			return false
		}
	}
	return true
}

// bestSplit finds the (feature, threshold) with the largest reduction in
// squared error. Thresholds sit halfway between consecutive distinct values.
func bestSplit(xs [][numFeatures]float64, ys []float64, idx []int) (int, float64, bool) {
	n := float64(len(idx))
	var total, totalSq float64
	for _, i := range idx {
		total += ys[i]
		totalSq += ys[i] * ys[i]
	}
	parentSSE := totalSq - total*total/n

	bestGain := 0.0
	bestFeature, bestThreshold, found := 0, 0.0, false

	sorted := make([]int, len(idx))
	for f := 0; f < numFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return xs[sorted[a]][f] < xs[sorted[b]][f] })

		var leftSum, leftSq float64
		for k := 0; k < len(sorted)-1; k++ {
			y := ys[sorted[k]]
			leftSum += y
			leftSq += y * y
			cur, next := xs[sorted[k]][f], xs[sorted[k+1]][f]
			if cur == next {
				continue
			}
			ln := float64(k + 1)
			rn := n - ln
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/ln) + (rightSq - rightSum*rightSum/rn)
			if gain := parentSSE - sse; gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
