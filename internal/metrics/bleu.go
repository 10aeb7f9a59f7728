package metrics

import (
	"math"
	"strings"
)

// BLEU is corpus BLEU with clipped n-gram precision and a brevity penalty.
// Orders for which the hypotheses contain no n-grams are left out of the
// geometric mean.
type BLEU struct {
	MaxOrder int
}

func NewBLEU() *BLEU {
	return &BLEU{MaxOrder: 4}
}

func (b *BLEU) Name() string {
	return "bleu"
}

func ngrams(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}

func (b *BLEU) Compute(predictions []string, references [][]string) (float64, error) {
	if err := checkCorpus(b.Name(), predictions, references); err != nil {
		return 0, err
	}

	matches := make([]int, b.MaxOrder)
	possible := make([]int, b.MaxOrder)
	hypLen, refLen := 0, 0

	for i, pred := range predictions {
		hyp := tokenize(pred)
		refs := make([][]string, len(references[i]))
		for j, r := range references[i] {
			refs[j] = tokenize(r)
		}
		hypLen += len(hyp)
		refLen += closestRefLength(len(hyp), refs)

		for n := 1; n <= b.MaxOrder; n++ {
			maxRef := make(map[string]int)
			for _, ref := range refs {
				for g, c := range ngrams(ref, n) {
					if c > maxRef[g] {
						maxRef[g] = c
					}
				}
			}
			for g, c := range ngrams(hyp, n) {
				matches[n-1] += min(c, maxRef[g])
				possible[n-1] += c
			}
		}
	}

	if hypLen == 0 {
		return 0, nil
	}

	logSum := 0.0
	order := 0
	for n := 0; n < b.MaxOrder; n++ {
		if possible[n] == 0 {
			continue
		}
		if matches[n] == 0 {
			return 0, nil
		}
		logSum += math.Log(float64(matches[n]) / float64(possible[n]))
		order++
	}
	if order == 0 {
		return 0, nil
	}

	bp := 1.0
	if hypLen < refLen {
		bp = math.Exp(1 - float64(refLen)/float64(hypLen))
	}
	return bp * math.Exp(logSum/float64(order)), nil
}

// closestRefLength picks the reference length closest to the hypothesis
// length, preferring the shorter one on ties.
func closestRefLength(hypLen int, refs [][]string) int {
	best := -1
	for _, r := range refs {
		l := len(r)
		if best < 0 {
			best = l
			continue
		}
		d, bd := abs(l-hypLen), abs(best-hypLen)
		if d < bd || (d == bd && l < best) {
			best = l
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
