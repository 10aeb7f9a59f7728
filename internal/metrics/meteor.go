package metrics

import "math"

// METEOR scores exact unigram alignments with a recall-weighted harmonic mean
// and a fragmentation penalty. Each prediction takes its best reference; the
// corpus score is the mean over predictions.
type METEOR struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

func NewMETEOR() *METEOR {
	return &METEOR{Alpha: 0.9, Beta: 3, Gamma: 0.5}
}

func (m *METEOR) Name() string {
	return "meteor"
}

func (m *METEOR) Compute(predictions []string, references [][]string) (float64, error) {
	if err := checkCorpus(m.Name(), predictions, references); err != nil {
		return 0, err
	}

	total := 0.0
	for i, pred := range predictions {
		hyp := lowerAll(tokenize(pred))
		best := 0.0
		for _, r := range references[i] {
			if s := m.sentence(hyp, lowerAll(tokenize(r))); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(predictions)), nil
}

func (m *METEOR) sentence(hyp, ref []string) float64 {
	if len(hyp) == 0 || len(ref) == 0 {
		return 0
	}

	align := alignExact(hyp, ref)
	matched := 0
	for _, j := range align {
		if j >= 0 {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	p := float64(matched) / float64(len(hyp))
	r := float64(matched) / float64(len(ref))
	fmean := p * r / (m.Alpha*p + (1-m.Alpha)*r)

	frag := float64(countChunks(align)-1) / float64(matched)
	penalty := m.Gamma * math.Pow(frag, m.Beta)
	return fmean * (1 - penalty)
}

// alignExact maps every hypothesis position to a reference position, or -1.
// Each hypothesis token takes the first unused identical reference token,
// preferring the one right after the previous alignment.
func alignExact(hyp, ref []string) []int {
	used := make([]bool, len(ref))
	align := make([]int, len(hyp))
	prev := -2
	for i, tok := range hyp {
		align[i] = -1
		if prev+1 >= 0 && prev+1 < len(ref) && !used[prev+1] && ref[prev+1] == tok {
			align[i] = prev + 1
		} else {
			for j, rt := range ref {
				if !used[j] && rt == tok {
					align[i] = j
					break
				}
			}
		}
		if align[i] >= 0 {
			used[align[i]] = true
			prev = align[i]
		}
	}
	return align
}

// countChunks counts maximal runs of matches adjacent in both sentences.
func countChunks(align []int) int {
	chunks := 0
	last := -2
	for _, j := range align {
		if j < 0 {
			last = -2
			continue
		}
		if j != last+1 {
			chunks++
		}
		last = j
	}
	return chunks
}
