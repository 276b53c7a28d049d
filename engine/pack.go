package engine

// MinPackSize is the smallest number of cards a pack may hold.
const MinPackSize = 3

// PackRanks returns the ranks a pack may be started with: the hand holds at
// least MinPackSize copies and at least one copy is a legal single play.
func PackRanks(hand, legal []Card) []uint8 {
	var ranks []uint8
	seen := [NumRanks]bool{}
	for _, c := range legal {
		r := c.Rank()
		if seen[r] {
			continue
		}
		seen[r] = true
		if countRank(hand, r) >= MinPackSize {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// ValidatePack reports whether cards may be played together as one pack.
// The first card must be a legal single, every card shares its rank, Kings
// stay within the first King's color pair, and hand must hold every card
// (as a multiset). Any violation rejects the whole pack.
func ValidatePack(hand, cards, legal []Card) bool {
	if len(cards) < MinPackSize {
		return false
	}
	first := cards[0]
	if !containsCard(legal, first) {
		return false
	}
	rank := first.Rank()
	if countRank(hand, rank) < MinPackSize {
		return false
	}
	for _, c := range cards[1:] {
		if c.Rank() != rank {
			return false
		}
		if rank == RankKing && !sameKingPair(first, c) {
			return false
		}
	}
	return holdsAll(hand, cards)
}
