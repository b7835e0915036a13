package scoring

// rule inspects a buyer and either contributes a breakdown line or abstains.
type rule func(b Buyer) (Factor, bool)

// fold applies rules in order, summing points and keeping breakdown order.
func fold(b Buyer, rules []rule) (int, []Factor) {
	total := 0
	breakdown := make([]Factor, 0, len(rules))
	for _, r := range rules {
		f, ok := r(b)
		if !ok {
			continue
		}
		total += f.Points
		breakdown = append(breakdown, f)
	}
	return total, breakdown
}

func clampScore(value int) int {
	if value < minScore {
		return minScore
	}
	if value > maxScore {
		return maxScore
	}
	return value
}
