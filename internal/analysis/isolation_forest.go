package analysis

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
)

const eulerGamma = 0.5772156649015329

// isolationForest is an ensemble of random partitioning trees. Points that are
// separated from the rest after few splits get low (more anomalous) scores.
type isolationForest struct {
	trees      []*isolationNode
	sampleSize int
}

type isolationNode struct {
	feature int
	split   float64
	left    *isolationNode
	right   *isolationNode
	// size is the number of training rows that ended in this leaf.
	size int
}

func (n *isolationNode) leaf() bool {
	return n.left == nil && n.right == nil
}

// fitIsolationForest stops between trees once ctx is done and returns its error.
func fitIsolationForest(ctx context.Context, data [][]float64, trees, maxSamples int, seed uint64) (*isolationForest, error) {
	rng := rand.New(rand.NewPCG(seed, seed))

	sampleSize := min(maxSamples, len(data))
	heightLimit := int(math.Ceil(math.Log2(float64(max(sampleSize, 2)))))

	forest := &isolationForest{
		trees:      make([]*isolationNode, trees),
		sampleSize: sampleSize,
	}
	for i := range forest.trees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows := rng.Perm(len(data))[:sampleSize]
		forest.trees[i] = growIsolationTree(data, rows, 0, heightLimit, rng)
	}
	return forest, nil
}

func growIsolationTree(data [][]float64, rows []int, depth, heightLimit int, rng *rand.Rand) *isolationNode {
	if depth >= heightLimit || len(rows) <= 1 {
		return &isolationNode{size: len(rows)}
	}

	type span struct {
		feature int
		lo, hi  float64
	}
	var candidates []span
	for f := range data[rows[0]] {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			lo = math.Min(lo, data[r][f])
			hi = math.Max(hi, data[r][f])
		}
		if hi > lo {
			candidates = append(candidates, span{feature: f, lo: lo, hi: hi})
		}
	}
	// Identical points cannot be separated any further.
	if len(candidates) == 0 {
		return &isolationNode{size: len(rows)}
	}

	// Only non-constant features are drawn. sklearn draws over every feature
	// and redraws on constant ones, which weights the choice differently.
	c := candidates[rng.IntN(len(candidates))]
	split := c.lo + rng.Float64()*(c.hi-c.lo)

	var left, right []int
	for _, r := range rows {
		if data[r][c.feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return &isolationNode{
		feature: c.feature,
		split:   split,
		left:    growIsolationTree(data, left, depth+1, heightLimit, rng),
		right:   growIsolationTree(data, right, depth+1, heightLimit, rng),
	}
}

// averagePathLength is the expected depth of an unsuccessful search in a
// binary search tree of n points, used to normalise path lengths.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

func pathLength(x []float64, node *isolationNode, depth int) float64 {
	for !node.leaf() {
		if x[node.feature] < node.split {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(node.size)
}

// scoreSamples returns -2^(-E[h(x)]/c(psi)) per row: around -0.5 for ordinary
// points, approaching -1 for clear outliers.
func (f *isolationForest) scoreSamples(data [][]float64) []float64 {
	norm := averagePathLength(f.sampleSize)
	if norm == 0 {
		norm = 1
	}
	scores := make([]float64, len(data))
	for i, x := range data {
		var total float64
		for _, tree := range f.trees {
			total += pathLength(x, tree, 0)
		}
		mean := total / float64(len(f.trees))
		scores[i] = -math.Pow(2, -mean/norm)
	}
	return scores
}

// percentile interpolates linearly between closest ranks, p in [0, 1].
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
